package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArowuTest/recyclepoints-backend/internal/apperrors"
	"github.com/gin-gonic/gin"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"validation", apperrors.Validation("op", "bad weight"), http.StatusBadRequest, "VALIDATION"},
		{"not found", apperrors.NotFound("op", "no request"), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", apperrors.Forbidden("op", "not yours"), http.StatusForbidden, "FORBIDDEN"},
		{"invalid state", apperrors.InvalidState("op", "not pending"), http.StatusConflict, "INVALID_STATE"},
		{"insufficient", apperrors.InsufficientBalance("op", "need 30"), http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"},
		{"unavailable", apperrors.Unavailable("op", "reward unavailable"), http.StatusConflict, "UNAVAILABLE"},
		{"internal", apperrors.Internal("op", errors.New("disk on fire")), http.StatusInternalServerError, "INTERNAL"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			respondError(c, tt.err)

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			var body struct {
				Error string `json:"error"`
				Code  string `json:"code"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.wantKind {
				t.Errorf("code = %q, want %q", body.Code, tt.wantKind)
			}
			if tt.wantCode == http.StatusInternalServerError && body.Error != "internal server error" {
				t.Errorf("internal detail leaked: %q", body.Error)
			}
		})
	}
}

func TestPaging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query     string
		page, lim int
	}{
		{"", 1, 20},
		{"?page=3&limit=50", 3, 50},
		{"?page=abc&limit=", 0, 0},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
		page, limit := paging(c)
		if page != tt.page || limit != tt.lim {
			t.Errorf("paging(%q) = %d, %d, want %d, %d", tt.query, page, limit, tt.page, tt.lim)
		}
	}
}
