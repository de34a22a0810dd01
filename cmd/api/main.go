package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	notedomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/note"
	visitdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/locker"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memstore"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinic-scheduler",
		Short:         "Clinic visit scheduling API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), seedFile)
		},
	}
	cmd.Flags().StringVar(&seedFile, "seed", "", "JSON file with clinics, patients and assignments (STORAGE=memory only)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Storage != config.StoragePostgres {
				return fmt.Errorf("migrate requires STORAGE=%s", config.StoragePostgres)
			}

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			return dbpkg.Migrate(db)
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.Env, cfg.LogLevel)
	timezone.SetDefault(cfg.DefaultTZ)
	return cfg, nil
}

// storage is the set of repositories for the configured backend.
type storage struct {
	visits      visitdomain.Repository
	notes       notedomain.Repository
	membership  notedomain.Membership
	assignments handlers.AssignmentLister
	db          *gorm.DB
}

func openStorage(cfg *config.Config, seedFile string) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		store := memstore.New()
		if seedFile != "" {
			f, err := os.Open(seedFile)
			if err != nil {
				return nil, fmt.Errorf("open seed: %w", err)
			}
			defer f.Close()
			if err := store.LoadSeed(f); err != nil {
				return nil, err
			}
		}
		log.Warn().Msg("using in-memory storage, data is lost on exit")
		return &storage{
			visits:      store,
			notes:       store,
			membership:  store,
			assignments: store,
		}, nil
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := dbpkg.Migrate(db); err != nil {
		return nil, err
	}

	noteRepo := infraRepo.NewNoteGormRepository(db)
	return &storage{
		visits:      infraRepo.NewVisitGormRepository(db),
		notes:       noteRepo,
		membership:  noteRepo,
		assignments: noteRepo,
		db:          db,
	}, nil
}

func openLocker(ctx context.Context, cfg *config.Config) (visitdomain.Locker, func(), error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("REDIS_URL not set, using in-process booking lock")
		return locker.NewMemoryLocker(cfg.LockWait), func() {}, nil
	}

	client, err := locker.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return locker.NewRedisLocker(client, cfg.LockTTL, cfg.LockWait), func() { _ = client.Close() }, nil
}

func runServer(ctx context.Context, seedFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := validators.Register(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	store, err := openStorage(cfg, seedFile)
	if err != nil {
		return err
	}

	bookingLock, closeLock, err := openLocker(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLock()

	dispatcher := audit.NewDispatcher(audit.New(store.db))
	defer dispatcher.Close()

	svc := scheduling.New(scheduling.Deps{
		Visits:     store.visits,
		Notes:      store.notes,
		Membership: store.membership,
		Locker:     bookingLock,
		Audit:      dispatcher,
	})

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	routes.RegisterRoutes(r, routes.Deps{
		Config:      cfg,
		Service:     svc,
		Assignments: store.assignments,
		DB:          store.db,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("storage", cfg.Storage).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
