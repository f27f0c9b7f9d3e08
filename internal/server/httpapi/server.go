// Package httpapi exposes the REST surface of the telefeed server: auth
// endpoints, channel message endpoints, and the middleware chain that
// authenticates bearer tokens.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"telefeed/internal/logging"
	"telefeed/internal/server/config"
	"telefeed/internal/server/messages"
	"telefeed/internal/server/users"
)

type Server struct {
	address   string
	logger    logging.Logger
	users     *users.Service
	messages  *messages.Service
	jwtSecret []byte
	engine    *gin.Engine
}

func NewServer(cfg *config.Config, l logging.Logger, us *users.Service, ms *messages.Service) *Server {
	s := &Server{
		address:   cfg.EndpointAddr,
		logger:    l.With("module", "http_server"),
		users:     us,
		messages:  ms,
		jwtSecret: []byte(cfg.SecretKey),
	}
	s.engine = s.buildRouter(cfg.CORSAllowedOrigins)
	return s
}

func (s *Server) buildRouter(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestID())
	router.Use(s.requestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.Use(s.authenticate())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/signup", s.handleSignup)
	}

	telegramGroup := router.Group("/api/telegram")
	telegramGroup.Use(s.requireAuth())
	{
		telegramGroup.GET("/messages", s.handleListMessages)
		telegramGroup.POST("/fetch", s.handleFetch)
		telegramGroup.POST("/manual", s.handleCreateManual)
		telegramGroup.GET("/status", s.handleStatus)
	}

	return router
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
