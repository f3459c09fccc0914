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

	"qaboard/internal/config"
	"qaboard/internal/db"
	"qaboard/internal/logger"
	"qaboard/internal/router"
	"qaboard/internal/services"
	"qaboard/internal/store"
	"qaboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const configEnv = "QABOARD_CONFIG"

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app 是各子命令共享的运行时依赖
type app struct {
	cfg *config.Config
	log zerolog.Logger
	db  *gorm.DB
}

// newApp reads the config and opens the database. The caller must defer
// app.Close().
func newApp() (*app, error) {
	path := configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	log := logger.New(cfg.Log, nil)
	gdb, err := db.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: gdb}, nil
}

func (a *app) Close() {
	if err := db.Close(a.db); err != nil {
		a.log.Error().Err(err).Msg("closing database")
	}
}

var rootCmd = &cobra.Command{
	Use:          "qaboard",
	Short:        "Question and answer board API",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := db.Migrate(a.db, a.log); err != nil {
			return err
		}
		return serve(cmd.Context(), a)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return db.Migrate(a.db, a.log)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample users, questions and answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := db.Migrate(a.db, a.log); err != nil {
			return err
		}
		if _, err := services.NewSeeder(store.New(a.db), a.log).Seed(cmd.Context()); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file (env "+configEnv+")")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// serve 启动 HTTP 服务，收到 SIGINT/SIGTERM 后优雅退出
func serve(ctx context.Context, a *app) error {
	if a.cfg.UsesDefaultSecret() {
		a.log.Warn().Msg("JWT_SECRET is not set, using the built-in development secret")
	}
	gin.SetMode(a.cfg.Server.Mode)

	cache, err := utils.NewCache(128)
	if err != nil {
		return err
	}
	s := store.New(a.db)
	r := router.New(router.Deps{
		Store:        s,
		Auth:         services.NewAuthService(s.Users, a.cfg.Auth),
		Cache:        cache,
		CookieSecure: a.cfg.Auth.CookieSecure,
	}, a.log)

	read, write, idle := a.cfg.Server.Timeouts()
	srv := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  read,
		WriteTimeout: write,
		IdleTimeout:  idle,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("qaboard server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
