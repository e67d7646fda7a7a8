// Package httpserver exposes the account service over HTTP/JSON.
package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avkram/accountd/internal/service"
)

// Config collects the collaborators the HTTP layer routes into.
type Config struct {
	Accounts    *service.AccountService
	Batch       *service.BatchRegistrar
	Logger      *zap.Logger
	MaxPageSize int
	// DBPing and RedisPing report backend health; nil means the backend is
	// not configured and is skipped by the health check.
	DBPing    func(ctx context.Context) error
	RedisPing func(ctx context.Context) error
}

// Server holds the handlers for the account API.
type Server struct {
	accounts    *service.AccountService
	batch       *service.BatchRegistrar
	log         *zap.Logger
	maxPageSize int
	dbPing      func(ctx context.Context) error
	redisPing   func(ctx context.Context) error
}

// New constructs a Server from its collaborators.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxPageSize := cfg.MaxPageSize
	if maxPageSize < 1 {
		maxPageSize = 100
	}
	return &Server{
		accounts:    cfg.Accounts,
		batch:       cfg.Batch,
		log:         log,
		maxPageSize: maxPageSize,
		dbPing:      cfg.DBPing,
		redisPing:   cfg.RedisPing,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(Recover(s.log), RequestLogger(s.log))

	auth := r.Group("/auth")
	{
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.GET("/me", s.me)
		auth.POST("/logout", s.logout)
	}
	users := r.Group("/users")
	{
		users.GET("", s.listUsers)
		users.GET("/stats", s.stats)
		users.POST("/batch", s.batchRegister)
	}
	r.GET("/healthz", s.health)
	return r
}
