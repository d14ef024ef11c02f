// Package ui serves the single-page cleaner: an upload form in, a cleaned
// file out. All state is request-scoped; nothing survives a response.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"cleanmycsv/internal"
	"cleanmycsv/internal/clean"
	"cleanmycsv/internal/config"
)

// Server represents the web server for the cleaner UI
type Server struct {
	router        *gin.Engine
	cfg           *config.Config
	templates     *template.Template
	embeddedFiles embed.FS
	logger        *internal.Logger // Logger for controlled verbosity

	// Whole uploads are held in memory, so the number of files being
	// cleaned at once is bounded.
	cleanSem *semaphore.Weighted
}

// NewServer creates a new web server instance
func NewServer(cfg *config.Config, embeddedFiles embed.FS) (*Server, error) {
	gin.SetMode(cfg.Server.GinMode)
	s := &Server{
		router:        gin.Default(),
		cfg:           cfg,
		embeddedFiles: embeddedFiles,
		logger:        internal.NewDefaultLogger(),
		cleanSem:      semaphore.NewWeighted(cfg.Upload.MaxConcurrentCleans),
	}

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}
	s.setupStatic()
	s.setupRoutes()
	return s, nil
}

func (s *Server) parseTemplates() error {
	templatesFS, err := fs.Sub(s.embeddedFiles, "ui/templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	s.templates, err = template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	return nil
}

func (s *Server) setupStatic() {
	staticFS, err := fs.Sub(s.embeddedFiles, "ui/static")
	if err != nil {
		log.Printf("[Static] embedded static filesystem unavailable: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/clean", s.handleClean)
	s.router.POST("/preview", s.handlePreview)
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	log.Printf("Starting CleanMyCSV UI on http://%s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Header("Content-Type", "text/html")
	data := gin.H{
		"MaxFileSizeMB":    s.cfg.Upload.MaxFileSizeMB,
		"NumericThreshold": s.cfg.Clean.NumericThreshold,
	}
	if err := s.templates.ExecuteTemplate(c.Writer, "index.html", data); err != nil {
		s.logger.Error("Template error: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

// pipelineOptions builds clean.Options from form fields, falling back to
// the configured defaults
func (s *Server) pipelineOptions(c *gin.Context) clean.Options {
	opts := clean.Options{
		ParseDates:       false,
		NumericThreshold: s.cfg.Clean.NumericThreshold,
		DateThreshold:    s.cfg.Clean.DateThreshold,
	}
	switch c.PostForm("parse_dates") {
	case "on", "true", "1":
		opts.ParseDates = true
	}
	if raw := c.PostForm("numeric_threshold"); raw != "" {
		var t float64
		if _, err := fmt.Sscanf(raw, "%f", &t); err == nil && t > 0 && t <= 1 {
			opts.NumericThreshold = t
		}
	}
	return opts
}
