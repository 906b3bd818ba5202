// Package api serves the Packliste conversion over HTTP.
package api

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/exporter"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/store"
)

// Options configures a Handler.
type Options struct {
	// DataDir holds the uploads, exports and work subdirectories.
	DataDir      string
	TemplatePath string
	AutoFit      bool
	Logger       *zerolog.Logger
}

// Handler serves the conversion API.
type Handler struct {
	store     *store.Store
	opts      Options
	log       *zerolog.Logger
	downloads *downloadStore
}

// NewHandler creates a handler backed by st.
func NewHandler(st *store.Store, opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Handler{
		store:     st,
		opts:      opts,
		log:       log,
		downloads: newDownloadStore(),
	}
}

// RegisterRoutes mounts the API on router.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)

	router.POST("/convert", h.Convert)
	router.POST("/convert/stream", h.ConvertStream)
	router.GET("/download/:token", h.Download)

	router.GET("/seals", h.GetSeals)
	router.PUT("/seals", h.PutSeals)

	router.GET("/conversions", h.ListConversions)
}

// Health GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) uploadDir() string { return filepath.Join(h.opts.DataDir, "uploads") }
func (h *Handler) exportDir() string { return filepath.Join(h.opts.DataDir, "exports") }
func (h *Handler) workDir() string   { return filepath.Join(h.opts.DataDir, "work") }

func (h *Handler) converter(progress func(exporter.ProgressEvent)) *exporter.Converter {
	return exporter.NewConverter(exporter.Options{
		TemplatePath: h.opts.TemplatePath,
		WorkDir:      h.workDir(),
		AutoFit:      h.opts.AutoFit,
		Logger:       h.log,
		Progress:     progress,
	})
}
