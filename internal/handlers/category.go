package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pollhub-dev/pollhub/internal/store"
)

type CategoryHandler struct {
	store *store.Store
}

func NewCategoryHandler(s *store.Store) *CategoryHandler {
	return &CategoryHandler{store: s}
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// List is a non-critical read: a failure degrades to an empty list so a
// filter dropdown never blocks the page.
func (h *CategoryHandler) List(ctx *gin.Context) {
	categories, err := h.store.ListCategories()

	if err != nil {
		log.Printf("Failed to list categories: %v", err)
		ctx.JSON(http.StatusOK, gin.H{"categories": []CategoryResponse{}})
		return
	}

	response := make([]CategoryResponse, 0, len(categories))

	for _, category := range categories {
		response = append(response, CategoryResponse{
			ID:   category.ID,
			Name: category.Name,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"categories": response})
}

func (h *CategoryHandler) Create(ctx *gin.Context) {
	var req CreateCategoryRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.store.CreateCategory(req.Name, req.Description)

	if err != nil {
		if errors.Is(err, store.ErrDuplicateCategory) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
		} else {
			log.Printf("Failed to create category: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
	})
}
