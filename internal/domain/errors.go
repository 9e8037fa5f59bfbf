package domain

import "errors"

var (
	ErrEmptyMemberSet  = errors.New("entry member set is empty")
	ErrDuplicateEntry  = errors.New("organizer already has an entry for this lottery date")
	ErrInvalidConfig   = errors.New("invalid algorithm config")
	ErrNoWindows       = errors.New("no windows configured for lottery date")
	ErrRunNotFound     = errors.New("processing run not found")
	ErrEntryNotFound   = errors.New("lottery entry not found")
	ErrRunCommitFailed = errors.New("failed to commit processing run")
	ErrMalformedRule   = errors.New("malformed restriction rule")
)
