package api

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/martijn/miniblog/internal/api/handler"
	"github.com/martijn/miniblog/internal/api/middleware"
	"github.com/martijn/miniblog/internal/core/service"
	"github.com/martijn/miniblog/pkg/config"
	"github.com/martijn/miniblog/web"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	config *config.Config
	logger *slog.Logger
}

// NewServer creates the API server: one RPC endpoint plus the page shells.
func NewServer(
	cfg *config.Config,
	authService *service.AuthService,
	postService *service.PostService,
	userService *service.UserService,
	logger *slog.Logger,
) *Server {
	// Set Gin mode
	if !cfg.IsDevMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandlerMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.SessionMiddleware(authService))

	router.SetHTMLTemplate(template.Must(template.ParseFS(web.FS, "templates/*.html")))

	cookieMaxAge := int((time.Duration(cfg.SessionTTLHours) * time.Hour).Seconds())
	rpcHandler := handler.NewRPCHandler(
		authService,
		postService,
		userService,
		logger,
		cookieMaxAge,
		cfg.SecureCookies(),
	)
	pageHandler := handler.NewPageHandler()

	// The whole business surface is this one endpoint.
	router.POST("/api", rpcHandler.Dispatch)

	// Page shells
	router.GET("/", pageHandler.Index)
	router.GET("/login", pageHandler.Login)
	router.GET("/register", pageHandler.Register)
	router.GET("/create_post", pageHandler.CreatePost)
	router.GET("/edit_post/:id", pageHandler.EditPost)
	router.GET("/admin", pageHandler.Admin)

	staticFS, err := fs.Sub(web.FS, "static")
	if err != nil {
		panic(fmt.Sprintf("static assets missing: %v", err))
	}
	router.StaticFS("/static", http.FS(staticFS))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return &Server{
		router: router,
		config: cfg,
		logger: logger,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.ListenHost, s.config.ListenPort)

	s.srv = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start with or without SSL
	if s.config.SSLCert != "" && s.config.SSLKey != "" {
		s.logger.Info("starting HTTPS server", "addr", addr)
		return s.srv.ListenAndServeTLS(s.config.SSLCert, s.config.SSLKey)
	}

	s.logger.Info("starting HTTP server", "addr", addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
