package handlers

import (
	"net/http"

	"github.com/ArowuTest/recyclepoints-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AccountHandler serves balances, ledgers, notifications, the catalog and
// reward redemption
type AccountHandler struct {
	accountService    services.AccountService
	redemptionService services.RedemptionService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService services.AccountService, redemptionService services.RedemptionService) *AccountHandler {
	return &AccountHandler{accountService: accountService, redemptionService: redemptionService}
}

// GetBalance handles GET /me/balance
func (h *AccountHandler) GetBalance(c *gin.Context) {
	balance, err := h.accountService.GetBalance(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// ListTransactions handles GET /me/transactions
func (h *AccountHandler) ListTransactions(c *gin.Context) {
	page, limit := paging(c)
	list, err := h.accountService.ListTransactions(c.Request.Context(), actor(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "page": page})
}

// ListNotifications handles GET /me/notifications
func (h *AccountHandler) ListNotifications(c *gin.Context) {
	page, limit := paging(c)
	list, err := h.accountService.ListNotifications(c.Request.Context(), actor(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "page": page})
}

// ListCategories handles GET /categories
func (h *AccountHandler) ListCategories(c *gin.Context) {
	list, err := h.accountService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// ListRewards handles GET /rewards
func (h *AccountHandler) ListRewards(c *gin.Context) {
	list, err := h.accountService.ListRewards(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// RedeemReward handles POST /rewards/:id/redeem
func (h *AccountHandler) RedeemReward(c *gin.Context) {
	result, err := h.redemptionService.RedeemReward(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
