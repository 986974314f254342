package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/miniblog/internal/api/dto"
	"github.com/martijn/miniblog/internal/core/domain"
	"github.com/martijn/miniblog/internal/core/service"
)

// MethodNames is the canonical list of RPC methods. The registry built in
// NewRPCHandler must cover exactly this set; construction panics otherwise,
// so a missing registration is caught at startup rather than at call time.
var MethodNames = []string{
	"register",
	"login",
	"logout",
	"create_post",
	"edit_post",
	"delete_post",
	"delete_account",
	"get_posts",
	"admin_delete_user",
	"admin_delete_post",
	"get_current_user",
}

// wireErrors lists every error a method may surface to the client. Anything
// else is reported as a generic internal error.
var wireErrors = []error{
	domain.ErrMethodNotFound,
	domain.ErrMissingFields,
	domain.ErrInvalidLogin,
	domain.ErrInvalidPassword,
	domain.ErrLoginExists,
	domain.ErrEmailExists,
	domain.ErrMissingCredentials,
	domain.ErrInvalidCredentials,
	domain.ErrAuthRequired,
	domain.ErrMissingTopicContent,
	domain.ErrPostNotFound,
	domain.ErrPermissionDenied,
	domain.ErrAdminRequired,
	domain.ErrUserNotFound,
	domain.ErrCannotDeleteAdmin,
}

type rpcMethod func(c *gin.Context, params json.RawMessage) (any, error)

// RPCHandler dispatches POST /api envelopes to the registered methods.
type RPCHandler struct {
	authService *service.AuthService
	postService *service.PostService
	userService *service.UserService
	logger      *slog.Logger

	cookieMaxAge int
	cookieSecure bool

	methods map[string]rpcMethod
}

func NewRPCHandler(
	authService *service.AuthService,
	postService *service.PostService,
	userService *service.UserService,
	logger *slog.Logger,
	cookieMaxAge int,
	cookieSecure bool,
) *RPCHandler {
	h := &RPCHandler{
		authService:  authService,
		postService:  postService,
		userService:  userService,
		logger:       logger,
		cookieMaxAge: cookieMaxAge,
		cookieSecure: cookieSecure,
	}

	h.methods = map[string]rpcMethod{
		"register":          h.register,
		"login":             h.login,
		"logout":            h.logout,
		"create_post":       h.createPost,
		"edit_post":         h.editPost,
		"delete_post":       h.deletePost,
		"delete_account":    h.deleteAccount,
		"get_posts":         h.getPosts,
		"admin_delete_user": h.adminDeleteUser,
		"admin_delete_post": h.adminDeletePost,
		"get_current_user":  h.getCurrentUser,
	}

	for _, name := range MethodNames {
		if _, ok := h.methods[name]; !ok {
			panic(fmt.Sprintf("rpc method not registered: %s", name))
		}
	}
	if len(h.methods) != len(MethodNames) {
		panic("rpc registry contains unexpected methods")
	}

	return h
}

// Dispatch handles POST /api. Every dispatched outcome returns HTTP 200 with
// a {result, id} or {error, id} envelope; only an unparseable body yields a
// 400, without an id since none could be read.
func (h *RPCHandler) Dispatch(c *gin.Context) {
	var req dto.RPCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	method, ok := h.methods[req.Method]
	if !ok {
		c.JSON(http.StatusOK, dto.RPCError{Error: domain.ErrMethodNotFound.Error(), ID: req.ID})
		return
	}

	result, err := method(c, req.Params)
	if err != nil {
		c.JSON(http.StatusOK, dto.RPCError{Error: h.wireError(c, req.Method, err), ID: req.ID})
		return
	}
	c.JSON(http.StatusOK, dto.RPCResult{Result: result, ID: req.ID})
}

func (h *RPCHandler) wireError(c *gin.Context, method string, err error) string {
	for _, w := range wireErrors {
		if errors.Is(err, w) {
			return w.Error()
		}
	}
	h.logger.Error("rpc method failed", "method", method, "error", err)
	return "Internal server error"
}
