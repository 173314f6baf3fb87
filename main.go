package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aapka-khata/backend/internal/auth"
	"github.com/aapka-khata/backend/internal/config"
	"github.com/aapka-khata/backend/internal/controllers/api"
	"github.com/aapka-khata/backend/internal/events"
	"github.com/aapka-khata/backend/internal/models"
	"github.com/aapka-khata/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// sessionCleanupInterval is how often expired sessions are deleted.
const sessionCleanupInterval = time.Hour

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// run returns only after all resources are released
	if err := run(config.Load()); err != nil {
		log.Fatal().Msg(err.Error())
	}
	log.Info().Msg("Server stopped")
}

// run serves the API until SIGINT or SIGTERM is received.
func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := connect(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	}

	co := api.New(db, publisher, cfg.SessionDuration, cfg.SecureCookie)

	r, teardown, err := router.Config(cfg.APIURL)
	if err != nil {
		return err
	}
	defer teardown()

	router.AttachRoutes(co, r.Group("/"))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("url", cfg.APIURL.String()).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		cleanSessions(ctx, co.Auth)
		return nil
	})

	return g.Wait()
}

// connect opens PostgreSQL if it is configured and SQLite otherwise.
func connect(cfg *config.Config) (*gorm.DB, error) {
	if cfg.UsePostgres() {
		return models.ConnectPostgres(cfg.PostgresDSN())
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), os.ModePerm); err != nil {
		return nil, err
	}

	return models.Connect(cfg.DBPath)
}

// cleanSessions deletes expired sessions until ctx is done.
func cleanSessions(ctx context.Context, m *auth.Manager) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.CleanExpiredSessions(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Cleaning expired sessions failed")
				continue
			}
			log.Debug().Int64("count", n).Msg("Deleted expired sessions")
		}
	}
}
