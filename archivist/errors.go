package archivist

import (
	"errors"

	"github.com/cryptovibes/cryptovibes/pkg/errlvl"
)

// archivistError is a service-level error type.
type archivistError error

var (
	errFailedMigration  archivistError = errors.New("failed to migrate schema")
	errFailedConnection archivistError = errors.New("failed to connect to database")
)

// newError creates a wrapped error instance with the given errors.
func newError(lvl errlvl.Lvl, genericErr archivistError, err error) error {
	var wrappedErr error
	if err != nil {
		wrappedErr = errlvl.Wrap(errors.Join(genericErr, err), lvl)
	} else {
		wrappedErr = errlvl.Wrap(genericErr, lvl)
	}

	return wrappedErr
}
