package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matthieukhl/eashop/internal/config"
	"github.com/matthieukhl/eashop/internal/database"
	"github.com/matthieukhl/eashop/internal/shop"
)

const version = "0.1.0"

type Server struct {
	router   *gin.Engine
	shop     *shop.Service
	db       *database.DB
	telegram config.TelegramConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewServer creates a new server instance. db may be nil when carts are kept
// in memory.
func NewServer(svc *shop.Service, db *database.DB, tg config.TelegramConfig, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	server := &Server{
		router:   router,
		shop:     svc,
		db:       db,
		telegram: tg,
		logger:   logger,
		now:      time.Now,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.index)

	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
		api.GET("/products", s.listProducts)
		api.GET("/products/:id", s.getProduct)
	}

	session := api.Group("", s.identify)
	{
		session.GET("/me", s.me)

		session.GET("/cart", s.getCart)
		session.POST("/cart/items", s.addCartItem)
		session.DELETE("/cart/items/:id", s.removeCartItem)

		session.GET("/view", s.getView)
		session.POST("/view/cart", s.toggleCart)
		session.POST("/view/home", s.goHome)
		session.POST("/view/back", s.goBack)
		session.POST("/view/details/:id", s.showDetails)
		session.POST("/view/search", s.setSearch)

		session.POST("/checkout", s.checkout)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	if s.db != nil {
		if err := s.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"error":  "database connection failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "eashop",
		"version": version,
	})
}

// Start serves HTTP on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
