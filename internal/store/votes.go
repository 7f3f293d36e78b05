package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pollhub-dev/pollhub/internal/models"
	"github.com/pollhub-dev/pollhub/internal/polls"
)

// CastVote records the user's selection on a poll. The poll is loaded and
// run through polls.ValidateVote, every selected option is checked to
// belong to the poll, and the write happens in one transaction: prior
// votes that the new selection replaces are deleted, then the whole batch
// is inserted. On any failure the transaction rolls back and no vote is
// considered cast.
func (s *Store) CastVote(pollID uint, userID uint, optionIDs []uint) (*PollDetail, error) {
	var poll models.Poll

	err := s.db.Preload("Options").First(&poll, pollID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	selected, err := polls.ValidateVote(poll, dedupe(optionIDs), time.Now())

	if err != nil {
		return nil, err
	}

	belongs := make(map[uint]bool, len(poll.Options))

	for _, option := range poll.Options {
		belongs[option.ID] = true
	}

	for _, id := range selected {
		if !belongs[id] {
			return nil, polls.ErrUnknownOption
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		cleared := tx.Where("poll_id = ? AND user_id = ?", pollID, userID)

		if poll.AllowMultipleChoices {
			// Multiple choice: only re-votes on the submitted options are
			// replaced, other existing selections stay.
			cleared = cleared.Where("option_id IN ?", selected)
		}

		if err := cleared.Delete(&models.Vote{}).Error; err != nil {
			return err
		}

		votes := make([]models.Vote, len(selected))

		for i, optionID := range selected {
			votes[i] = models.Vote{
				UserID:   userID,
				PollID:   pollID,
				OptionID: optionID,
			}
		}

		return tx.Create(&votes).Error
	})

	if err != nil {
		return nil, err
	}

	return s.GetPoll(pollID, &userID)
}

// RemoveVote clears the user's vote(s) on a poll, optionally scoped to a
// single option. ErrNotFound when there was nothing to remove.
func (s *Store) RemoveVote(pollID uint, userID uint, optionID *uint) error {
	q := s.db.Where("poll_id = ? AND user_id = ?", pollID, userID)

	if optionID != nil {
		q = q.Where("option_id = ?", *optionID)
	}

	result := q.Delete(&models.Vote{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// HasVoted reports whether the user holds at least one vote on the poll.
func (s *Store) HasVoted(pollID uint, userID uint) (bool, error) {
	var count int64

	err := s.db.Model(&models.Vote{}).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		Count(&count).Error

	return count > 0, err
}

// CountVotes counts all vote rows referencing the poll. This must always
// equal the sum of the per-option counts in a PollDetail.
func (s *Store) CountVotes(pollID uint) (int64, error) {
	var count int64

	err := s.db.Model(&models.Vote{}).
		Where("poll_id = ?", pollID).
		Count(&count).Error

	return count, err
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))

	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	return out
}
