package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pollhub-dev/pollhub/internal/middleware"
	"github.com/pollhub-dev/pollhub/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, errors.New("user not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, errors.New("invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// OptionalUserID returns a pointer to the viewer's id when the request is
// authenticated, nil otherwise. Used by read endpoints behind OptionalAuth.
func OptionalUserID(ctx *gin.Context) *uint {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return nil
	}

	return &user.ID
}

func GetPollID(ctx *gin.Context) (uint, error) {
	pollIDStr := ctx.Param("poll_id")

	if pollIDStr == "" {
		return 0, errors.New("poll ID not found")
	}

	pollID, err := strconv.ParseUint(pollIDStr, 10, 32)

	if err != nil {
		return 0, errors.New("invalid poll ID")
	}

	return uint(pollID), nil
}
