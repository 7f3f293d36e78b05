// Package store translates validated application requests into database
// operations. Every method takes the acting user's id explicitly; nothing
// in here reads ambient request state.
package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pollhub-dev/pollhub/internal/models"
)

// ErrNotFound covers both a missing row and an ownership mismatch on
// owner-scoped writes. The two are indistinguishable on purpose: the
// query matches on id and creator together.
var ErrNotFound = errors.New("record not found")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// PollDetail is a poll with everything a caller needs to render it:
// preloaded creator, category and options (ordered by position), the
// per-option vote counts, and the requesting user's own selections.
type PollDetail struct {
	Poll        models.Poll
	VoteCounts  map[uint]int64 // option id -> votes
	TotalVotes  int64
	ViewerVotes []uint // option ids the viewer has voted for, empty without a viewer
}

// hydrate attaches vote counts and viewer votes to a fetched poll.
func (s *Store) hydrate(poll models.Poll, viewerID *uint) (*PollDetail, error) {
	var rows []struct {
		OptionID uint
		Count    int64
	}

	err := s.db.Model(&models.Vote{}).
		Select("option_id, COUNT(*) AS count").
		Where("poll_id = ?", poll.ID).
		Group("option_id").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	detail := PollDetail{
		Poll:        poll,
		VoteCounts:  make(map[uint]int64, len(rows)),
		ViewerVotes: []uint{},
	}

	for _, row := range rows {
		detail.VoteCounts[row.OptionID] = row.Count
		detail.TotalVotes += row.Count
	}

	if viewerID != nil {
		err := s.db.Model(&models.Vote{}).
			Where("poll_id = ? AND user_id = ?", poll.ID, *viewerID).
			Pluck("option_id", &detail.ViewerVotes).Error

		if err != nil {
			return nil, err
		}
	}

	return &detail, nil
}
