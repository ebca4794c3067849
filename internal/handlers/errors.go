package handlers

import (
	"net/http"
	"strconv"

	"github.com/ArowuTest/recyclepoints-backend/internal/apperrors"
	"github.com/ArowuTest/recyclepoints-backend/internal/middleware"
	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// statusFor maps an error kind to its HTTP status
func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindInvalidState, apperrors.KindUnavailable:
		return http.StatusConflict
	case apperrors.KindInsufficientBalance:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error", "code"}. Internal failures are logged
// and their detail withheld from the client.
func respondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := statusFor(kind)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err, "path", c.FullPath(), "requestId", c.GetString(middleware.RequestIDKey))
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg, "code": kind.String()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": apperrors.KindValidation.String()})
}

// actor returns the authenticated caller. The auth middleware guarantees it
// is present on protected routes.
func actor(c *gin.Context) models.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

// paging parses page and limit query params. Bad values fall back to the
// repository defaults.
func paging(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}
