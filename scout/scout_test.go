package scout

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	dir := t.TempDir()
	secretsPath := filepath.Join(dir, "secrets.yaml")
	if err := os.WriteFile(secretsPath, []byte("NEWSAPI_KEY: shared-news\nRAPIDAPI_KEY: shared-rapid\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("NEWSAPI_KEY", "env-news")
	t.Setenv("TYPEFULLY_API_KEY", "env-typefully")

	r := NewResolver(secretsPath)

	tests := []struct {
		name     string
		key      string
		explicit string
		want     string
	}{
		{
			name:     "explicit wins over everything",
			key:      "NEWSAPI_KEY",
			explicit: "user-key",
			want:     "user-key",
		},
		{
			name: "secrets file wins over env",
			key:  "NEWSAPI_KEY",
			want: "shared-news",
		},
		{
			name: "secrets file only",
			key:  "RAPIDAPI_KEY",
			want: "shared-rapid",
		},
		{
			name: "env fallback",
			key:  "TYPEFULLY_API_KEY",
			want: "env-typefully",
		},
		{
			name: "absent",
			key:  "NO_SUCH_KEY",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.key, tt.explicit); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewResolver_missingFile(t *testing.T) {
	t.Setenv("SOME_KEY", "from-env")

	r := NewResolver("/definitely/not/a/file.yaml")
	if got := r.Resolve("SOME_KEY", ""); got != "from-env" {
		t.Errorf("Resolve() = %q, want env fallback", got)
	}
}

func TestResolver_Has(t *testing.T) {
	r := NewResolver("")
	if r.Has("NOPE_KEY") {
		t.Error("Has() = true for absent key")
	}
	t.Setenv("NOPE_KEY", "x")
	if !r.Has("NOPE_KEY") {
		t.Error("Has() = false for env key")
	}
}
