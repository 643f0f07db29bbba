package ui

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"schedex/app"
	apperrors "schedex/internal/errors"
	"schedex/models"
	"schedex/ports"
)

// Server hosts the JSON parse API.
type Server struct {
	router    *gin.Engine
	reader    ports.SpreadsheetReader
	parser    *app.ParseService
	maxUpload int64
}

// ServerConfig holds parse API server settings.
type ServerConfig struct {
	GinMode     string
	MaxUploadMB int
}

// NewServer creates a new parse API server instance.
func NewServer(cfg ServerConfig, reader ports.SpreadsheetReader, parser *app.ParseService) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 20
	}

	s := &Server{
		router:    gin.Default(),
		reader:    reader,
		parser:    parser,
		maxUpload: int64(maxMB) << 20,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/parse", s.handleParse)
}

// Router exposes the underlying handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the parse API server.
func (s *Server) Start(addr string) error {
	log.Printf("Starting schedule parse API on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleParse accepts a multipart .xlsx upload under the "file" field and
// returns the parsed schedule. Filename and size checks run before any
// workbook bytes are read.
func (s *Server) handleParse(c *gin.Context) {
	start := time.Now()

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:  "No file uploaded",
			Detail: "Send the workbook as multipart form field \"file\"",
		})
		return
	}
	defer func() { _ = file.Close() }()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:  "Invalid file format",
			Detail: "Only .xlsx files are supported",
		})
		return
	}

	if header.Size > s.maxUpload {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:  "File too large",
			Detail: fmt.Sprintf("Upload limit is %d MB", s.maxUpload>>20),
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:  "Failed to read upload",
			Detail: err.Error(),
		})
		return
	}

	wb, err := s.reader.LoadWorkbook(c.Request.Context(), data)
	if err != nil {
		c.JSON(http.StatusBadRequest, loadErrorResponse(err))
		return
	}

	resp := s.parser.ParseWorkbook(c.Request.Context(), wb, header.Filename)

	log.Printf("[ParseAPI] %s: %d products in %.2fms",
		header.Filename, len(resp.Products), float64(time.Since(start).Nanoseconds())/1e6)
	c.JSON(http.StatusOK, resp)
}

// loadErrorResponse maps a workbook load failure onto the API error
// payload, keeping the taxonomy message and surfacing the cause.
func loadErrorResponse(err error) models.ErrorResponse {
	if appErr, ok := err.(*apperrors.AppError); ok {
		resp := models.ErrorResponse{Error: appErr.Message}
		if appErr.Cause != nil {
			resp.Detail = appErr.Cause.Error()
		}
		return resp
	}
	return models.ErrorResponse{Error: "Failed to load workbook", Detail: err.Error()}
}
