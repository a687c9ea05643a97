// Package scout resolves provider API keys from the places they may live.
//
// The dashboard lets users bring their own keys, the deployment may ship
// shared free-tier keys in a secrets file, and local development relies on
// environment variables. Resolution is a pure lookup with a fixed priority
// and it never fails: a missing or unreadable secrets file simply means the
// next level is consulted.
package scout

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Resolver resolves a named credential with the following priority:
//  1. explicit value supplied by the user for this run
//  2. shared secrets file (if one was loaded)
//  3. environment variable with the same name
//  4. empty string (absent)
type Resolver struct {
	secrets map[string]string
}

// NewResolver creates a Resolver backed by the secrets file at path.
// The file is optional: any read or parse failure yields a resolver that
// only consults explicit values and the environment.
func NewResolver(path string) *Resolver {
	r := &Resolver{secrets: map[string]string{}}
	if path == "" {
		return r
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return r
	}
	for _, key := range v.AllKeys() {
		r.secrets[strings.ToUpper(key)] = v.GetString(key)
	}
	return r
}

// Resolve returns the credential value for name, or "" if none is available.
func (r *Resolver) Resolve(name, explicit string) string {
	if explicit != "" {
		return explicit
	}

	if r != nil {
		if v, ok := r.secrets[strings.ToUpper(name)]; ok && v != "" {
			return v
		}
	}

	return os.Getenv(name)
}

// Has reports whether any value is resolvable for name without an explicit one.
// The dashboard uses it to show whether shared keys are configured.
func (r *Resolver) Has(name string) bool {
	return r.Resolve(name, "") != ""
}
