package polls

import "errors"

// Poll creation rejections. All are client-correctable input problems and
// surface verbatim to the user.
var (
	ErrEmptyTitle       = errors.New("title must not be empty")
	ErrTooFewOptions    = errors.New("a poll needs at least 2 options")
	ErrTooManyOptions   = errors.New("a poll can have at most 10 options")
	ErrDuplicateOptions = errors.New("options must be distinct")
	ErrExpiryInPast     = errors.New("expiry must be in the future")
)

// Vote rejections.
var (
	ErrPollInactive       = errors.New("poll is not active")
	ErrPollExpired        = errors.New("poll has expired")
	ErrNoSelection        = errors.New("no option selected")
	ErrMultipleNotAllowed = errors.New("poll does not allow multiple choices")
	ErrUnknownOption      = errors.New("option does not belong to this poll")
)
