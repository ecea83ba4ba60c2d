package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"timebook-backend/internal/auth"
	"timebook-backend/internal/config"
	"timebook-backend/internal/database"
	"timebook-backend/internal/db"
	"timebook-backend/internal/handlers"
	"timebook-backend/internal/health"
	h "timebook-backend/internal/http"
	"timebook-backend/internal/middleware"
	"timebook-backend/internal/models"
	"timebook-backend/internal/repositories"
	"timebook-backend/internal/services"
	"timebook-backend/internal/session"
	"timebook-backend/internal/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	root := &cobra.Command{
		Use:          "timebook-backend",
		Short:        "Zeiterfassung und Honorarnoten fuer Freelancer",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), createUserCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()

			if err := database.RunMigrations(ctx, cfg); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}

			pool := db.Connect(cfg)
			defer pool.Close()

			return runServer(ctx, cfg, pool)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
	userRepo := repositories.NewUserRepository(pool)
	clientRepo := repositories.NewClientRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	entryRepo := repositories.NewTimeEntryRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	statsRepo := repositories.NewStatsRepository(pool)

	archiver, err := storage.NewArchiver(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("pdf archiver disabled")
	}

	authService := services.NewAuthService(userRepo)
	clientService := services.NewClientService(clientRepo, cfg)
	categoryService := services.NewCategoryService(categoryRepo)
	entryService := services.NewTimeEntryService(entryRepo, clientRepo, cfg)
	invoiceService := services.NewInvoiceService(invoiceRepo, clientRepo, cfg)
	pdfService := services.NewInvoicePDFService(clientRepo, archiver)
	statsService := services.NewStatsService(statsRepo)

	sessions := session.NewStore(cfg)
	jwtManager := auth.NewJWTManager(cfg)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessions, cfg)

	router := h.NewRouter(
		handlers.NewAuthHandler(authService, sessions, jwtManager, cfg),
		handlers.NewClientHandler(clientService),
		handlers.NewCategoryHandler(categoryService),
		handlers.NewTimeEntryHandler(entryService),
		handlers.NewInvoiceHandler(invoiceService, pdfService),
		handlers.NewStatsHandler(statsService),
		handlers.NewHealthHandler(health.NewChecker(pool)),
		authMiddleware,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      middleware.NewCORS(cfg)(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := database.RunMigrations(cmd.Context(), cfg); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func createUserCmd() *cobra.Command {
	var (
		username string
		password string
		email    string
		admin    bool
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a login account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}

			cfg := config.Load()
			pool := db.Connect(cfg)
			defer pool.Close()

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			user := &models.User{
				Username:     username,
				PasswordHash: hash,
				Admin:        admin,
				Aktiv:        true,
			}
			if email != "" {
				user.Email = &email
			}

			if err := repositories.NewUserRepository(pool).Create(cmd.Context(), user); err != nil {
				return err
			}
			log.Info().Str("username", username).Int("id", user.ID).Msg("user created")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant admin rights")
	return cmd
}
