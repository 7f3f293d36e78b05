package store

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pollhub-dev/pollhub/internal/models"
	"github.com/pollhub-dev/pollhub/internal/polls"
	"github.com/pollhub-dev/pollhub/internal/types"
)

// NewPoll carries already-validated, normalized poll creation input
// (the output of polls.ValidateNewPoll plus the optional fields).
type NewPoll struct {
	Title                string
	Description          string
	Options              []string
	AllowMultipleChoices bool
	ExpiresAt            *time.Time
	CategoryID           *uint
	CreatorID            uint
}

// PollUpdate is a partial update; nil fields are left untouched.
type PollUpdate struct {
	Title       *string
	Description *string
	IsActive    *bool
	ExpiresAt   *time.Time
	CategoryID  *uint
}

// ListFilter narrows and orders a poll listing. Zero values mean
// "no filter", default sort is created_at descending.
type ListFilter struct {
	Status     string
	CategoryID *uint
	CreatorID  *uint
	Search     string
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// sortColumns maps the caller-facing sort keys to ORDER BY expressions.
// total_votes sorts by a correlated count so it needs no join that would
// change the result shape.
var sortColumns = map[string]string{
	types.SortCreatedAt:  "created_at",
	types.SortUpdatedAt:  "updated_at",
	types.SortTitle:      "title",
	types.SortTotalVotes: "(SELECT COUNT(*) FROM votes WHERE votes.poll_id = polls.id)",
}

func (s *Store) pollQuery() *gorm.DB {
	return s.db.
		Preload("Creator").
		Preload("Category").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// CreatePoll inserts the poll and its options in one transaction, with
// option positions 0..N-1 in submitted order. Either everything lands or
// nothing does; a reader can never observe a poll without options.
func (s *Store) CreatePoll(input NewPoll) (*PollDetail, error) {
	poll := models.Poll{
		Title:                input.Title,
		Description:          input.Description,
		CreatorID:            input.CreatorID,
		IsActive:             true,
		AllowMultipleChoices: input.AllowMultipleChoices,
		ExpiresAt:            input.ExpiresAt,
		CategoryID:           input.CategoryID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&poll).Error; err != nil {
			return err
		}

		options := make([]models.PollOption, len(input.Options))

		for i, text := range input.Options {
			options[i] = models.PollOption{
				PollID:   poll.ID,
				Text:     text,
				Position: i,
			}
		}

		return tx.Create(&options).Error
	})

	if err != nil {
		return nil, err
	}

	return s.GetPoll(poll.ID, &input.CreatorID)
}

// GetPoll fetches a poll with creator, category, ordered options, vote
// counts, and (when a viewer is supplied) the viewer's own votes.
func (s *Store) GetPoll(id uint, viewerID *uint) (*PollDetail, error) {
	var poll models.Poll

	if err := s.pollQuery().First(&poll, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.hydrate(poll, viewerID)
}

// ListPolls returns a page of polls matching the filter plus the total
// match count. Vote counts and viewer votes are fetched per poll.
func (s *Store) ListPolls(filter ListFilter, viewerID *uint) ([]PollDetail, int64, error) {
	now := time.Now()
	q := s.db.Model(&models.Poll{})

	switch filter.Status {
	case "", types.StatusAll:
	case types.StatusActive:
		q = q.Where("is_active = ? AND (expires_at IS NULL OR expires_at > ?)", true, now)
	case types.StatusExpired:
		q = q.Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now)
	case types.StatusInactive:
		q = q.Where("is_active = ?", false)
	}

	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}

	if filter.CreatorID != nil {
		q = q.Where("creator_id = ?", *filter.CreatorID)
	}

	if filter.Search != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]

	if !ok {
		column = "created_at"
	}

	direction := "DESC"

	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	limit := filter.Limit

	if limit <= 0 {
		limit = defaultListLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}

	offset := filter.Offset

	if offset < 0 {
		offset = 0
	}

	var matched []models.Poll

	err := q.
		Preload("Creator").
		Preload("Category").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order(column + " " + direction).
		Limit(limit).
		Offset(offset).
		Find(&matched).Error

	if err != nil {
		return nil, 0, err
	}

	details := make([]PollDetail, 0, len(matched))

	for _, poll := range matched {
		detail, err := s.hydrate(poll, viewerID)

		if err != nil {
			return nil, 0, err
		}

		details = append(details, *detail)
	}

	return details, total, nil
}

// UpdatePoll applies the caller-supplied fields to a poll the user owns.
// The match is on id and creator together, so a wrong owner and a missing
// poll both come back as ErrNotFound.
func (s *Store) UpdatePoll(id uint, userID uint, update PollUpdate) (*PollDetail, error) {
	updates := make(map[string]interface{})

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)

		if title == "" {
			return nil, polls.ErrEmptyTitle
		}

		updates["title"] = title
	}

	if update.Description != nil {
		updates["description"] = strings.TrimSpace(*update.Description)
	}

	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}

	if update.ExpiresAt != nil {
		if !update.ExpiresAt.After(time.Now()) {
			return nil, polls.ErrExpiryInPast
		}

		updates["expires_at"] = *update.ExpiresAt
	}

	if update.CategoryID != nil {
		updates["category_id"] = *update.CategoryID
	}

	if len(updates) == 0 {
		return s.GetPoll(id, &userID)
	}

	result := s.db.Model(&models.Poll{}).
		Where("id = ? AND creator_id = ?", id, userID).
		Updates(updates)

	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetPoll(id, &userID)
}

// DeletePoll removes a poll the user owns together with its options and
// votes in one transaction, so no orphaned row stays queryable.
func (s *Store) DeletePoll(id uint, userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var poll models.Poll

		err := tx.Where("id = ? AND creator_id = ?", id, userID).First(&poll).Error

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("poll_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}

		if err := tx.Where("poll_id = ?", id).Delete(&models.PollOption{}).Error; err != nil {
			return err
		}

		return tx.Delete(&poll).Error
	})
}
