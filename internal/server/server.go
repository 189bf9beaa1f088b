// Package server assembles the gin engine: middleware, API routes and
// the background session pruner.
package server

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tincho2002/RRHH-sub000/internal/api"
	"github.com/Tincho2002/RRHH-sub000/internal/config"
	"github.com/Tincho2002/RRHH-sub000/internal/view"
)

// Server is the HTTP front of the dashboard.
type Server struct {
	router *gin.Engine
	orch   *view.Orchestrator
}

// NewServer builds the server from configuration.
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	orch := view.New(cfg)
	s := &Server{
		router: gin.Default(),
		orch:   orch,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// CORS: the dashboard front end runs on a separate origin in
	// development.
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Session-Id")
		c.Header("Access-Control-Expose-Headers", "X-Session-Id, Content-Disposition")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := api.NewHandler(s.orch)
	handler.RegisterRoutes(s.router.Group("/api/v1"))
}

// Run starts the listener and the session pruner. Blocks until the
// listener stops.
func (s *Server) Run(addr string) error {
	go s.pruneLoop()
	return s.router.Run(addr)
}

// Orchestrator exposes the orchestrator, mainly for tests.
func (s *Server) Orchestrator() *view.Orchestrator { return s.orch }

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine { return s.router }

func (s *Server) pruneLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		if n := s.orch.Sessions().Prune(); n > 0 {
			log.Printf("sesiones vencidas eliminadas: %d", n)
		}
	}
}
