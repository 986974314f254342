package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/martijn/miniblog/internal/core/repository"
	"github.com/martijn/miniblog/internal/core/service"
	"github.com/martijn/miniblog/internal/infrastructure/sqlite"
	"github.com/martijn/miniblog/internal/logging"
	"github.com/martijn/miniblog/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "miniblog",
	Short: "miniblog - a small JSON-RPC blogging backend",
	Long: `miniblog is a small blogging backend. Users register, log in and manage
text posts; administrators moderate users and posts. All business operations
go through a single JSON-RPC endpoint at POST /api.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/miniblog/config.yml)")
}

// initServices initializes the repositories and services
func initServices() (*Services, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	userRepo := sqlite.NewUserRepository(db)
	postRepo := sqlite.NewPostRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	authService := service.NewAuthService(userRepo, sessionRepo, cfg.SessionSecret, sessionTTL)
	postService := service.NewPostService(postRepo)
	userService := service.NewUserService(userRepo, sessionRepo, authService)

	return &Services{
		DB:          db,
		UserRepo:    userRepo,
		PostRepo:    postRepo,
		SessionRepo: sessionRepo,
		AuthService: authService,
		PostService: postService,
		UserService: userService,
		Logger:      logging.New(cfg.LogLevel),
	}, nil
}

// Services holds all initialized services
type Services struct {
	DB          *sqlite.DB
	UserRepo    repository.UserRepository
	PostRepo    repository.PostRepository
	SessionRepo repository.SessionRepository
	AuthService *service.AuthService
	PostService *service.PostService
	UserService *service.UserService
	Logger      *slog.Logger
}

// Close closes all resources
func (s *Services) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
