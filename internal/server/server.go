// Package server exposes the codec over a small HTTP API.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fakturio/einvoice/internal/classify"
	"github.com/fakturio/einvoice/internal/codec"
	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/pdf"
	"github.com/fakturio/einvoice/internal/validate"
	"github.com/fakturio/einvoice/pkg/einvoice"
)

const defaultCurrency = "EUR"

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	generator *einvoice.Generator
	validator *validate.Validator
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:    config,
		router:    router,
		generator: einvoice.NewGenerator(),
		validator: validate.NewValidator(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/generate", s.handleGenerate)
		v1.POST("/extract", s.handleExtract)
		v1.POST("/classify", s.handleClassify)
		v1.POST("/validate", s.handleValidate)
		v1.POST("/info", s.handleInfo)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	if req.Invoice == nil || req.Company == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invoice and company are required"})
		return
	}

	attachments, err := s.generator.Generate(c.Request.Context(), req.Invoice, req.Company, einvoice.GenerateOptions{
		Formats: req.Formats,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "generation failed", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{Attachments: attachments})
}

func (s *Server) handleExtract(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	currency := c.DefaultQuery("currency", defaultCurrency)
	extracted := einvoice.Extract(body, currency)
	if extracted.Format == model.FormatUnknown {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "unrecognized document format"})
		return
	}

	c.JSON(http.StatusOK, ExtractResponse{Invoice: extracted})
}

func (s *Server) handleClassify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ClassifyResponse{Strategy: classify.Receipt(req.Attachments)})
}

func (s *Server) handleValidate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	extracted := einvoice.Extract(body, c.DefaultQuery("currency", defaultCurrency))
	results := s.validator.Validate(extracted)

	var errors, warnings []string
	for _, r := range results {
		if r.IsError {
			errors = append(errors, r.Field+": "+r.Message)
		} else {
			warnings = append(warnings, r.Field+": "+r.Message)
		}
	}

	c.JSON(http.StatusOK, ValidationResponse{
		Valid:    len(errors) == 0,
		Format:   string(extracted.Format),
		Errors:   errors,
		Warnings: warnings,
	})
}

func (s *Server) handleInfo(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	mimeType := detectMimeType(body)
	embedded := false
	format := codec.DetectFormat(body)
	if mimeType == "application/pdf" {
		embedded = pdf.HasEmbeddedXML(body)
		if payload, ok := pdf.ExtractEmbeddedXML(body); ok {
			format = codec.DetectFormat([]byte(payload))
		}
	}

	c.JSON(http.StatusOK, InfoResponse{
		Format:      string(format),
		MimeType:    mimeType,
		Size:        len(body),
		EmbeddedXML: embedded,
	})
}

func detectMimeType(data []byte) string {
	if len(data) < 5 {
		return "application/octet-stream"
	}
	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return "application/pdf"
	}
	if data[0] == '<' || (data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF && data[3] == '<') {
		return "application/xml"
	}
	return "application/octet-stream"
}
