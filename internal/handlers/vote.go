package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pollhub-dev/pollhub/internal/polls"
	"github.com/pollhub-dev/pollhub/internal/store"
	"github.com/pollhub-dev/pollhub/internal/utils"
)

type VoteHandler struct {
	store *store.Store
}

func NewVoteHandler(s *store.Store) *VoteHandler {
	return &VoteHandler{store: s}
}

type CastVoteRequest struct {
	OptionIDs []uint `json:"option_ids"`
}

// voteErrorStatus maps vote rejections to HTTP statuses: a poll that is
// not open gets 409, a bad selection gets 400.
func voteErrorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, polls.ErrPollInactive), errors.Is(err, polls.ErrPollExpired):
		return http.StatusConflict
	case errors.Is(err, polls.ErrNoSelection),
		errors.Is(err, polls.ErrMultipleNotAllowed),
		errors.Is(err, polls.ErrUnknownOption):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *VoteHandler) Cast(ctx *gin.Context) {
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

	var req CastVoteRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	detail, err := h.store.CastVote(pollID, userID, req.OptionIDs)

	if err != nil {
		status := voteErrorStatus(err)

		if status == http.StatusInternalServerError {
			log.Printf("Failed to cast vote on poll %d: %v", pollID, err)
			ctx.JSON(status, gin.H{"error": "Failed to cast vote"})
		} else {
			ctx.JSON(status, gin.H{"error": err.Error()})
		}
		return
	}

	response := NewPollResponse(detail)

	BroadcastResults(pollID, response)

	ctx.JSON(http.StatusOK, response)
}

func (h *VoteHandler) Remove(ctx *gin.Context) {
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

	var optionID *uint

	if optionIDStr := ctx.Query("option_id"); optionIDStr != "" {
		parsed, err := strconv.ParseUint(optionIDStr, 10, 32)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option ID"})
			return
		}

		id := uint(parsed)
		optionID = &id
	}

	if err := h.store.RemoveVote(pollID, userID, optionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "No vote to remove"})
		} else {
			log.Printf("Failed to remove vote on poll %d: %v", pollID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove vote"})
		}
		return
	}

	detail, err := h.store.GetPoll(pollID, &userID)

	if err == nil {
		BroadcastResults(pollID, NewPollResponse(detail))
	} else {
		log.Printf("Failed to refresh poll %d after vote removal: %v", pollID, err)
	}

	ctx.Status(http.StatusNoContent)
}
