package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	srv *http.Server
}

// NewRouter wires every route on a fresh gin engine.
func NewRouter(handlers *Handlers, health *HealthHandlers, ws gin.HandlerFunc, metrics http.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Length", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/ping", health.Ping)
	router.GET("/healthz", health.Healthz)
	router.GET("/readyz", health.Readyz)
	router.GET("/metrics", gin.WrapH(metrics))
	router.GET("/ws", ws)

	game := router.Group("/game")
	{
		game.GET("", handlers.GetGame)
		game.POST("/moves", handlers.PlacePhoto)
		game.POST("/reset", handlers.Reset)
		game.POST("/reactions", handlers.React)
	}

	router.GET("/gifs", handlers.SearchGIFs)

	matches := router.Group("/matches")
	{
		matches.GET("", handlers.ListMatches)
		matches.DELETE("", handlers.ClearMatches)
		matches.DELETE("/:id", handlers.RemoveMatch)
	}

	profiles := router.Group("/profiles")
	{
		profiles.GET("/:slot", handlers.GetProfile)
		profiles.PUT("/:slot", handlers.SaveProfile)
		profiles.DELETE("/:slot", handlers.DeleteProfile)
	}

	return router
}

func New(port string, router http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (that *Server) Start() error {
	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
