package models

import (
	"errors"
	"strings"
	"testing"
)

func validRun() *Run {
	return &Run{
		Token:         "btc",
		MeanScore:     0.21,
		ItemCount:     10,
		PositiveCount: 6,
		NegativeCount: 1,
		NeutralCount:  3,
		Grade:         "B+",
	}
}

func TestRunValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Run)
		wantErr error
	}{
		{
			name:    "valid",
			mutate:  func(*Run) {},
			wantErr: nil,
		},
		{
			name:    "empty token",
			mutate:  func(r *Run) { r.Token = "" },
			wantErr: ErrTokenEmpty,
		},
		{
			name:    "token too long",
			mutate:  func(r *Run) { r.Token = strings.Repeat("a", 33) },
			wantErr: ErrTokenTooLong,
		},
		{
			name:    "grade too long",
			mutate:  func(r *Run) { r.Grade = "A++" },
			wantErr: ErrGradeTooLong,
		},
		{
			name:    "publication id too long",
			mutate:  func(r *Run) { r.PublicationID = strings.Repeat("x", 65) },
			wantErr: ErrPubIDTooLong,
		},
		{
			name:    "label counts mismatch",
			mutate:  func(r *Run) { r.PositiveCount = 9 },
			wantErr: ErrItemCountInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRun()
			tt.mutate(r)

			err := r.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunBeforeCreateAssignsID(t *testing.T) {
	r := validRun()
	if err := r.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}
	if r.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("ID not assigned")
	}
}
