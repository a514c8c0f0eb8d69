// Package server exposes the service over HTTP: public search and page
// endpoints, registration and login, and token-guarded favorites.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cifrabox/cifrabox/internal/app"
	"github.com/cifrabox/cifrabox/internal/auth"
	"github.com/cifrabox/cifrabox/internal/store"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 120 * time.Second
)

// Server is the HTTP front of the service.
type Server struct {
	cfg    app.Config
	svc    *app.Service
	store  *store.Store
	jwt    *auth.JWTManager
	router *gin.Engine
	server *http.Server
}

func New(cfg app.Config, svc *app.Service, st *store.Store) *Server {
	cfg.Defaults()
	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(loggingMiddleware())

	s := &Server{
		cfg:    cfg,
		svc:    svc,
		store:  st,
		jwt:    auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		router: router,
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.GET("/search", s.search)
	api.GET("/cifra", s.page)

	favorites := api.Group("/favorites")
	favorites.Use(s.requireAuth)
	favorites.GET("", s.listFavorites)
	favorites.POST("", s.addFavorite)
	favorites.DELETE("/:id", s.removeFavorite)

	s.server = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	log.Info().Str("addr", s.cfg.ListenAddr).Msg("http server listening")
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
