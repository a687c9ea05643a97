package errlvl

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	base := errors.New("something broke")

	tests := []struct {
		name  string
		err   error
		level Lvl
		is    error
	}{
		{
			name:  "debug",
			err:   base,
			level: DEBUG,
			is:    ErrDebug,
		},
		{
			name:  "info",
			err:   base,
			level: INFO,
			is:    ErrInfo,
		},
		{
			name:  "warn",
			err:   base,
			level: WARN,
			is:    ErrWarn,
		},
		{
			name:  "error",
			err:   base,
			level: ERROR,
			is:    ErrError,
		},
		{
			name:  "fatal",
			err:   base,
			level: FATAL,
			is:    ErrFatal,
		},
		{
			name:  "unknown level defaults to error",
			err:   base,
			level: Lvl(42),
			is:    ErrError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.level)
			if !errors.Is(got, tt.is) {
				t.Errorf("Wrap() = %v, want wrapped with %v", got, tt.is)
			}
			if !errors.Is(got, base) {
				t.Errorf("Wrap() lost the original error: %v", got)
			}
		})
	}

	t.Run("does not double wrap", func(t *testing.T) {
		once := Wrap(base, WARN)
		twice := Wrap(once, ERROR)
		if errors.Is(twice, ErrError) {
			t.Errorf("Wrap() re-wrapped an already levelled error: %v", twice)
		}
	})
}
