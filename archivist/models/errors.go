package models

import "errors"

var (
	ErrTokenEmpty       = errors.New("token is empty")
	ErrTokenTooLong     = errors.New("token is too long")
	ErrGradeTooLong     = errors.New("grade is too long")
	ErrPubIDTooLong     = errors.New("publication_id is too long")
	ErrItemCountInvalid = errors.New("item_count does not match label counts")
	ErrRunCreation      = errors.New("run creation failed")
	ErrRunUpdate        = errors.New("run update failed")
	ErrFindRecentRuns   = errors.New("failed to find recent runs")
)
