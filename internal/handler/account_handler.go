package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/spayd_api/internal/service"
	"github.com/GTDGit/spayd_api/internal/utils"
)

// AccountHandler handles receiving account management.
type AccountHandler struct {
	accountSvc *service.AccountService
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(accountSvc *service.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// ListAccounts handles GET /v1/admin/accounts
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Accounts retrieved", accounts)
}

// GetAccount handles GET /v1/admin/accounts/:id
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	a, err := h.accountSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Account retrieved", a)
}

// CreateAccount handles POST /v1/admin/accounts
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var in service.AccountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidRequest(c, err)
		return
	}
	a, err := h.accountSvc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Account created", a)
}

// UpdateAccount handles PUT /v1/admin/accounts/:id
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in service.AccountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidRequest(c, err)
		return
	}
	a, err := h.accountSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Account updated", a)
}

// DeleteAccount handles DELETE /v1/admin/accounts/:id
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.accountSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Account deleted", nil)
}
