package handlers

import (
	"net/http"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// RequestHandler handles donation request HTTP requests
type RequestHandler struct {
	requestService services.RequestService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requestService services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// CreateRequest handles POST /requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var in services.CreateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	req, err := h.requestService.CreateRequest(c.Request.Context(), actor(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// UpdateRequest handles PATCH /requests/:id
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	var patch models.RequestPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	req, err := h.requestService.UpdateRequest(c.Request.Context(), actor(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// CancelRequest handles POST /requests/:id/cancel
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	req, err := h.requestService.CancelRequest(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// GetRequest handles GET /requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	details, err := h.requestService.GetRequest(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// ListAvailable handles GET /requests/available
func (h *RequestHandler) ListAvailable(c *gin.Context) {
	page, limit := paging(c)
	list, err := h.requestService.ListAvailable(c.Request.Context(), actor(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "page": page})
}

// ListMine handles GET /requests/mine
func (h *RequestHandler) ListMine(c *gin.Context) {
	page, limit := paging(c)
	list, err := h.requestService.ListMine(c.Request.Context(), actor(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "page": page})
}
