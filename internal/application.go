package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/pictactoe-backend/internal/config"
	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
	"github.com/rocketscienceinc/pictactoe-backend/internal/metrics"
	"github.com/rocketscienceinc/pictactoe-backend/internal/repository"
	"github.com/rocketscienceinc/pictactoe-backend/internal/repository/storage"
	"github.com/rocketscienceinc/pictactoe-backend/internal/service"
	"github.com/rocketscienceinc/pictactoe-backend/internal/tictactoe"
	"github.com/rocketscienceinc/pictactoe-backend/internal/transport/giphy"
	"github.com/rocketscienceinc/pictactoe-backend/internal/usecase"
	"github.com/rocketscienceinc/pictactoe-backend/transport/rest"
	"github.com/rocketscienceinc/pictactoe-backend/transport/websocket"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrSQLiteNotFound = errors.New("sqlite storage path is empty")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	if conf.SQLiteStoragePath == "" {
		return ErrSQLiteNotFound
	}

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	matchRepo := repository.NewMatchRepository(sqliteStorage.Connection)
	if err = matchRepo.Init(ctx); err != nil {
		return fmt.Errorf("could not initialize match store: %w", err)
	}

	profileRepo := repository.NewProfileRepository(redisStorage.Connection)
	profileService := service.NewProfileService(logger, profileRepo)

	appMetrics := metrics.New(metrics.Namespace)
	gifClient := giphy.New(logger, conf.Giphy.BaseURL, conf.Giphy.APIKey, conf.Giphy.Timeout)

	engine := tictactoe.NewEngine()
	gameUseCase := usecase.NewGameUseCase(logger, engine, matchRepo, profileService, gifClient, appMetrics)
	historyUseCase := usecase.NewHistoryUseCase(logger, matchRepo, gameUseCase, profileService, appMetrics)

	wsServer := websocket.New(logger, gameUseCase, appMetrics)
	engine.OnMoveApplied(func(state entity.MatchState) {
		wsServer.Broadcast(websocket.ActionGameMove, state)
	})
	engine.OnMatchEnded(func(result entity.Result) {
		wsServer.Broadcast(websocket.ActionGameEnded, result)
	})

	if conf.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers := rest.NewHandlers(logger, gameUseCase, historyUseCase, profileService, wsServer)
	health := rest.NewHealthHandlers(logger, map[string]rest.Pinger{
		"sqlite": sqliteStorage,
		"redis":  redisStorage,
	})
	router := rest.NewRouter(handlers, health, wsServer.Handle, appMetrics.Handler())
	httpServer := rest.New(conf.HTTPPort, router)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := httpServer.Start(); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	if err = httpServer.Shutdown(context.Background()); err != nil {
		log.Error("could not shutdown HTTP server", "error", err)
	}

	if dropped := gameUseCase.Pending(); dropped > 0 {
		log.Warn("unsaved match results are lost on shutdown", "count", dropped)
	}

	return nil
}
