package server

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/api"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/config"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/store"
)

//go:embed web
var staticFiles embed.FS

// Server HTTP server for the upload form and the API.
type Server struct {
	router *gin.Engine
	api    *api.Handler
}

// NewServer creates the server. dataDir must exist; the store is owned by
// the caller.
func NewServer(cfg *config.AppConfig, st *store.Store, dataDir string, log *zerolog.Logger) (*Server, error) {
	if cfg.Server.DevMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := api.NewHandler(st, api.Options{
		DataDir:      dataDir,
		TemplatePath: config.ResolvePath(cfg.Excel.TemplatePath),
		AutoFit:      cfg.Excel.AutoFitColumns,
		Logger:       log,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.DevMode {
		router.Use(gin.Logger())
	}

	s := &Server{
		router: router,
		api:    handler,
	}
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setupRoutes() error {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	s.api.RegisterRoutes(s.router.Group("/api"))
	// monitors of the old service poll /health
	s.router.GET("/health", s.api.Health)

	sub, err := fs.Sub(staticFiles, "web")
	if err != nil {
		return fmt.Errorf("static files: %w", err)
	}
	index, err := fs.ReadFile(sub, "index.html")
	if err != nil {
		return fmt.Errorf("static files: %w", err)
	}
	s.router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts listening on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
