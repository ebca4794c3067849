package handlers

import (
	"net/http"

	"github.com/ArowuTest/recyclepoints-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CollectionHandler handles claim and completion HTTP requests
type CollectionHandler struct {
	collectionService services.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// AcceptRequest handles POST /requests/:id/accept
func (h *CollectionHandler) AcceptRequest(c *gin.Context) {
	details, err := h.collectionService.AcceptRequest(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// CompleteRequest handles POST /requests/:id/complete
func (h *CollectionHandler) CompleteRequest(c *gin.Context) {
	var in services.CompleteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.collectionService.CompleteRequest(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListMine handles GET /collections/mine
func (h *CollectionHandler) ListMine(c *gin.Context) {
	page, limit := paging(c)
	list, err := h.collectionService.ListMyCollections(c.Request.Context(), actor(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "page": page})
}
