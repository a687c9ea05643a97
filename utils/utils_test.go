package utils

import (
	"testing"
	"time"
)

func Test_ParseDate(t *testing.T) {
	tests := []struct {
		name      string
		dateValue Datable
		want      time.Time
		wantErr   bool
	}{
		{
			name:      "RFC1123",
			dateValue: "Tue, 14 Nov 2023 18:04:28 GMT",
			want:      time.Date(2023, 11, 14, 18, 4, 28, 0, time.UTC),
			wantErr:   false,
		},
		{
			name:      "RFC3339",
			dateValue: "2023-11-13T12:58:48Z",
			want:      time.Date(2023, 11, 13, 12, 58, 48, 0, time.UTC),
			wantErr:   false,
		},
		{
			name:      "RFC3339 without Z",
			dateValue: "2023-11-13T12:58:48",
			want:      time.Date(2023, 11, 13, 12, 58, 48, 0, time.UTC),
			wantErr:   false,
		},
		{
			name:      "RFC1123Z",
			dateValue: "Mon, 13 Nov 2023 23:00:00 -0000",
			want:      time.Date(2023, 11, 13, 23, 0, 0, 0, time.UTC),
			wantErr:   false,
		},
		{
			name:      "unix seconds as int",
			dateValue: 1702450800,
			want:      time.Date(2023, 12, 13, 7, 0, 0, 0, time.UTC),
			wantErr:   false,
		},
		{
			name:      "unix milliseconds as int64",
			dateValue: int64(1702450800000),
			want:      time.Date(2023, 12, 13, 7, 0, 0, 0, time.UTC),
			wantErr:   false,
		},
		{
			name:      "unix seconds as float64 (reddit created_utc)",
			dateValue: float64(1702450800),
			want:      time.Date(2023, 12, 13, 7, 0, 0, 0, time.UTC),
			wantErr:   false,
		},
		{
			name:      "nil",
			dateValue: nil,
			want:      time.Time{},
			wantErr:   false,
		},
		{
			name:      "empty string",
			dateValue: "",
			want:      time.Time{},
			wantErr:   false,
		},
		{
			name:      "garbage",
			dateValue: "not a date",
			want:      time.Time{},
			wantErr:   true,
		},
		{
			name:      "unknown type",
			dateValue: []string{"nope"},
			want:      time.Time{},
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.dateValue)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_StripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "BTC is pumping",
			want: "BTC is pumping",
		},
		{
			name: "tags removed",
			in:   "<p>BTC <b>breaks</b> $100k</p>",
			want: "BTC breaks $100k",
		},
		{
			name: "entities decoded",
			in:   "risk &amp; reward",
			want: "risk & reward",
		},
		{
			name: "whitespace collapsed",
			in:   "<div>  hello\n\n  <span>world</span>  </div>",
			want: "hello world",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_Truncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{
			name: "short string untouched",
			in:   "short",
			n:    80,
			want: "short",
		},
		{
			name: "long string cut",
			in:   "0123456789",
			n:    4,
			want: "0123",
		},
		{
			name: "multibyte safe",
			in:   "ёжик в тумане",
			n:    4,
			want: "ёжик",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("Truncate() = %q, want %q", got, tt.want)
			}
		})
	}
}
