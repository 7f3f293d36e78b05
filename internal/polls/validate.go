// Package polls holds the pure business rules of the voting domain:
// input validation for poll creation and vote submission, the single
// authoritative definition of "currently open", and result aggregation.
// Nothing in this package touches the database.
package polls

import (
	"strings"
	"time"

	"github.com/pollhub-dev/pollhub/internal/models"
)

const (
	MinOptions = 2
	MaxOptions = 10
)

// NewPollInput is the normalized output of ValidateNewPoll: trimmed title
// and trimmed, non-empty option texts in their submitted order.
type NewPollInput struct {
	Title   string
	Options []string
}

// ValidateNewPoll checks poll creation input against the creation rules
// and returns the normalized title and option list. Empty option entries
// are dropped before the count checks; duplicate detection is
// case-insensitive over the trimmed texts.
func ValidateNewPoll(title string, options []string, expiresAt *time.Time, now time.Time) (NewPollInput, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return NewPollInput{}, ErrEmptyTitle
	}

	trimmed := make([]string, 0, len(options))

	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt != "" {
			trimmed = append(trimmed, opt)
		}
	}

	if len(trimmed) < MinOptions {
		return NewPollInput{}, ErrTooFewOptions
	}

	if len(trimmed) > MaxOptions {
		return NewPollInput{}, ErrTooManyOptions
	}

	seen := make(map[string]bool, len(trimmed))

	for _, opt := range trimmed {
		key := strings.ToLower(opt)
		if seen[key] {
			return NewPollInput{}, ErrDuplicateOptions
		}
		seen[key] = true
	}

	if expiresAt != nil && !expiresAt.After(now) {
		return NewPollInput{}, ErrExpiryInPast
	}

	return NewPollInput{Title: title, Options: trimmed}, nil
}

// ValidateVote checks a vote submission against the poll's state and
// choice mode. It returns the selected ids unchanged on success. The
// active and expiry checks run before any selection check, so an empty
// selection on a closed poll still reports the poll's state.
func ValidateVote(poll models.Poll, optionIDs []uint, now time.Time) ([]uint, error) {
	if !poll.IsActive {
		return nil, ErrPollInactive
	}

	if poll.ExpiresAt != nil && !poll.ExpiresAt.After(now) {
		return nil, ErrPollExpired
	}

	if len(optionIDs) == 0 {
		return nil, ErrNoSelection
	}

	if !poll.AllowMultipleChoices && len(optionIDs) > 1 {
		return nil, ErrMultipleNotAllowed
	}

	return optionIDs, nil
}

// IsOpen reports whether the poll currently accepts votes: active flag set
// and no expiry passed. This is the one authoritative definition; callers
// recompute it rather than trusting a stored snapshot.
func IsOpen(poll models.Poll, now time.Time) bool {
	if !poll.IsActive {
		return false
	}

	return poll.ExpiresAt == nil || poll.ExpiresAt.After(now)
}
