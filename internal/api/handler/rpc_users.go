package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/martijn/miniblog/internal/api/dto"
	"github.com/martijn/miniblog/internal/api/middleware"
	"github.com/martijn/miniblog/internal/core/domain"
)

func (h *RPCHandler) deleteAccount(c *gin.Context, _ json.RawMessage) (any, error) {
	caller := middleware.Caller(c)
	if caller == nil {
		return nil, domain.ErrAuthRequired
	}

	// The cascade removes the caller's sessions inside the same transaction
	// that removes the posts and the user row.
	if err := h.userService.DeleteAccount(c.Request.Context(), caller); err != nil {
		return nil, err
	}
	h.clearSessionCookie(c)
	return "Account deleted successfully", nil
}

func (h *RPCHandler) adminDeleteUser(c *gin.Context, params json.RawMessage) (any, error) {
	caller := middleware.Caller(c)

	var p dto.UserIDParams
	if err := json.Unmarshal(params, &p); err != nil && len(params) > 0 {
		p.UserID = 0
	}

	if err := h.userService.AdminDeleteUser(c.Request.Context(), caller, p.UserID); err != nil {
		return nil, err
	}
	return "User deleted successfully", nil
}
