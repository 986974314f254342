package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/miniblog/internal/api/dto"
	"github.com/martijn/miniblog/internal/api/middleware"
	"github.com/martijn/miniblog/internal/core/domain"
)

func (h *RPCHandler) register(c *gin.Context, params json.RawMessage) (any, error) {
	var p dto.RegisterParams
	if err := json.Unmarshal(params, &p); err != nil && len(params) > 0 {
		return nil, domain.ErrMissingFields
	}

	err := h.authService.Register(c.Request.Context(), p.Login, p.Password, p.Name, p.Email, p.About)
	if err != nil {
		return nil, err
	}
	return "User registered successfully", nil
}

func (h *RPCHandler) login(c *gin.Context, params json.RawMessage) (any, error) {
	var p dto.LoginParams
	if err := json.Unmarshal(params, &p); err != nil && len(params) > 0 {
		return nil, domain.ErrMissingCredentials
	}

	token, _, err := h.authService.Login(c.Request.Context(), p.Login, p.Password)
	if err != nil {
		return nil, err
	}

	h.setSessionCookie(c, token)
	return "Logged in successfully", nil
}

func (h *RPCHandler) logout(c *gin.Context, _ json.RawMessage) (any, error) {
	if sessionID := middleware.SessionID(c); sessionID != "" {
		if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
			return nil, err
		}
	}
	h.clearSessionCookie(c)
	return "Logged out successfully", nil
}

func (h *RPCHandler) getCurrentUser(c *gin.Context, _ json.RawMessage) (any, error) {
	caller := middleware.Caller(c)
	if caller == nil {
		return dto.CurrentUserResult{}, nil
	}
	id := caller.ID
	return dto.CurrentUserResult{
		IsAuthenticated: true,
		IsAdmin:         caller.IsAdmin,
		ID:              &id,
	}, nil
}

func (h *RPCHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, h.cookieMaxAge, "/", "", h.cookieSecure, true)
}

func (h *RPCHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
}
