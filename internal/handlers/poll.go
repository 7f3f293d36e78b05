package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pollhub-dev/pollhub/internal/polls"
	"github.com/pollhub-dev/pollhub/internal/store"
	"github.com/pollhub-dev/pollhub/internal/types"
	"github.com/pollhub-dev/pollhub/internal/utils"
)

type PollHandler struct {
	store *store.Store
}

func NewPollHandler(s *store.Store) *PollHandler {
	return &PollHandler{store: s}
}

type CreatePollRequest struct {
	Title                string     `json:"title" binding:"required,max=200"`
	Description          string     `json:"description" binding:"max=500"`
	Options              []string   `json:"options" binding:"required"`
	AllowMultipleChoices bool       `json:"allow_multiple_choices"`
	ExpiresAt            *time.Time `json:"expires_at"`
	CategoryID           *uint      `json:"category_id"`
}

type UpdatePollRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool      `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CategoryID  *uint      `json:"category_id"`
}

type ListPollsQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=all active expired inactive"`
	CategoryID *uint  `form:"category_id"`
	CreatorID  *uint  `form:"creator_id"`
	Search     string `form:"search"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=created_at updated_at title total_votes"`
	SortOrder  string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

type OptionResponse struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	Position   int    `json:"position"`
	VoteCount  int64  `json:"vote_count"`
	Percentage int    `json:"percentage"`
}

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type PollResponse struct {
	ID                   uint               `json:"id"`
	Title                string             `json:"title"`
	Description          string             `json:"description,omitempty"`
	Creator              types.UserResponse `json:"creator"`
	Category             *CategoryResponse  `json:"category,omitempty"`
	IsActive             bool               `json:"is_active"`
	IsOpen               bool               `json:"is_open"`
	AllowMultipleChoices bool               `json:"allow_multiple_choices"`
	ExpiresAt            *time.Time         `json:"expires_at,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
	Options              []OptionResponse   `json:"options"`
	TotalVotes           int64              `json:"total_votes"`
	UserVotes            []uint             `json:"user_votes"`
	HasVoted             bool               `json:"has_voted"`
}

type ListPollsResponse struct {
	Polls  []PollResponse `json:"polls"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// NewPollResponse flattens a store.PollDetail for the wire. Options keep
// their position order regardless of vote counts; percentages round
// half-up independently per option.
func NewPollResponse(detail *store.PollDetail) PollResponse {
	poll := detail.Poll

	options := make([]OptionResponse, len(poll.Options))

	for i, option := range poll.Options {
		count := detail.VoteCounts[option.ID]
		options[i] = OptionResponse{
			ID:         option.ID,
			Text:       option.Text,
			Position:   option.Position,
			VoteCount:  count,
			Percentage: polls.Percentage(count, detail.TotalVotes),
		}
	}

	response := PollResponse{
		ID:          poll.ID,
		Title:       poll.Title,
		Description: poll.Description,
		Creator: types.UserResponse{
			ID:    poll.Creator.ID,
			Name:  poll.Creator.Name,
			Email: poll.Creator.Email,
		},
		IsActive:             poll.IsActive,
		IsOpen:               polls.IsOpen(poll, time.Now()),
		AllowMultipleChoices: poll.AllowMultipleChoices,
		ExpiresAt:            poll.ExpiresAt,
		CreatedAt:            poll.CreatedAt,
		UpdatedAt:            poll.UpdatedAt,
		Options:              options,
		TotalVotes:           detail.TotalVotes,
		UserVotes:            detail.ViewerVotes,
		HasVoted:             len(detail.ViewerVotes) > 0,
	}

	if poll.Category != nil {
		response.Category = &CategoryResponse{
			ID:   poll.Category.ID,
			Name: poll.Category.Name,
		}
	}

	return response
}

func (h *PollHandler) Create(ctx *gin.Context) {
	var req CreatePollRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	input, err := polls.ValidateNewPoll(req.Title, req.Options, req.ExpiresAt, time.Now())

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.CategoryID != nil {
		if _, err := h.store.GetCategory(*req.CategoryID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
				return
			}
			log.Printf("Failed to check category: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create poll"})
			return
		}
	}

	detail, err := h.store.CreatePoll(store.NewPoll{
		Title:                input.Title,
		Description:          req.Description,
		Options:              input.Options,
		AllowMultipleChoices: req.AllowMultipleChoices,
		ExpiresAt:            req.ExpiresAt,
		CategoryID:           req.CategoryID,
		CreatorID:            userID,
	})

	if err != nil {
		log.Printf("Failed to create poll: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create poll"})
		return
	}

	ctx.JSON(http.StatusCreated, NewPollResponse(detail))
}

func (h *PollHandler) Get(ctx *gin.Context) {
	pollID, err := utils.GetPollID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.store.GetPoll(pollID, utils.OptionalUserID(ctx))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		} else {
			log.Printf("Failed to retrieve poll %d: %v", pollID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve poll"})
		}
		return
	}

	ctx.JSON(http.StatusOK, NewPollResponse(detail))
}

func (h *PollHandler) List(ctx *gin.Context) {
	var query ListPollsQuery

	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := store.ListFilter{
		Status:     query.Status,
		CategoryID: query.CategoryID,
		CreatorID:  query.CreatorID,
		Search:     query.Search,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
		Limit:      query.Limit,
		Offset:     query.Offset,
	}

	details, total, err := h.store.ListPolls(filter, utils.OptionalUserID(ctx))

	if err != nil {
		log.Printf("Failed to list polls: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve polls"})
		return
	}

	response := ListPollsResponse{
		Polls:  make([]PollResponse, 0, len(details)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	if response.Limit <= 0 {
		response.Limit = 20
	}

	for i := range details {
		response.Polls = append(response.Polls, NewPollResponse(&details[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *PollHandler) Update(ctx *gin.Context) {
	pollID, err := utils.GetPollID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdatePollRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.store.UpdatePoll(pollID, userID, store.PollUpdate{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive,
		ExpiresAt:   req.ExpiresAt,
		CategoryID:  req.CategoryID,
	})

	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		case errors.Is(err, polls.ErrEmptyTitle), errors.Is(err, polls.ErrExpiryInPast):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("Failed to update poll %d: %v", pollID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update poll"})
		}
		return
	}

	ctx.JSON(http.StatusOK, NewPollResponse(detail))
}

func (h *PollHandler) Delete(ctx *gin.Context) {
	pollID, err := utils.GetPollID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.store.DeletePoll(pollID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		} else {
			log.Printf("Failed to delete poll %d: %v", pollID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete poll"})
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
