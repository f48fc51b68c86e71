package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/jsonstudio/internal/core"
	"github.com/agenthands/jsonstudio/internal/core/model"
	"github.com/agenthands/jsonstudio/internal/worker"
)

const defaultIndent = 2

type Server struct {
	Studio       *core.Studio
	Pool         *worker.Pool
	Logger       *slog.Logger
	MaxBodyBytes int64
}

func NewServer(studio *core.Studio, pool *worker.Pool, logger *slog.Logger, maxBodyBytes int64) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		Studio:       studio,
		Pool:         pool,
		Logger:       logger,
		MaxBodyBytes: maxBodyBytes,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.limitBody())

	r.GET("/healthz", s.Health)
	r.POST("/diff", s.Diff)
	r.POST("/tree", s.Tree)
	r.POST("/table", s.Table)
	r.POST("/transform", s.Transform)
	r.POST("/query", s.Query)
	r.POST("/format", s.Format)
	r.POST("/minify", s.Minify)
	r.POST("/validate", s.Validate)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.MaxBodyBytes > 0 {
			if c.Request.ContentLength > s.MaxBodyBytes {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxBodyBytes)
		}
		c.Next()
	}
}

// bind decodes the request envelope and writes the failure response itself.
func bind(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	return false
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Diff(c *gin.Context) {
	var req worker.Request
	if !bind(c, &req) {
		return
	}

	res, err := s.Pool.Do(c.Request.Context(), req)
	if err != nil {
		s.Logger.Warn("failed to compute diff", "seq", req.Seq, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Diff workers unavailable"})
		return
	}
	c.JSON(http.StatusOK, res)
}

type ContentRequest struct {
	Content string `json:"content"`
}

func (s *Server) Tree(c *gin.Context) {
	var req ContentRequest
	if !bind(c, &req) {
		return
	}

	node, err := s.Studio.Tree(req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, node)
}

func (s *Server) Table(c *gin.Context) {
	var req ContentRequest
	if !bind(c, &req) {
		return
	}

	data, err := s.Studio.Table(req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"table": data})
}

type TransformRequest struct {
	Content string       `json:"content"`
	Format  model.Format `json:"format"`
}

func (s *Server) Transform(c *gin.Context) {
	var req TransformRequest
	if !bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, s.Studio.Transform(c.Request.Context(), req.Content, req.Format))
}

type QueryRequest struct {
	Content string `json:"content"`
	Path    string `json:"path"`
}

func (s *Server) Query(c *gin.Context) {
	var req QueryRequest
	if !bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, s.Studio.Query(req.Content, req.Path))
}

type FormatRequest struct {
	Content string `json:"content"`
	Indent  *int   `json:"indent"`
}

func (s *Server) Format(c *gin.Context) {
	var req FormatRequest
	if !bind(c, &req) {
		return
	}

	indent := defaultIndent
	if req.Indent != nil {
		indent = *req.Indent
	}
	if indent < 0 || indent > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "indent must be between 0 and 10"})
		return
	}

	out, err := s.Studio.Format(req.Content, indent)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": out})
}

func (s *Server) Minify(c *gin.Context) {
	var req ContentRequest
	if !bind(c, &req) {
		return
	}

	out, err := s.Studio.Minify(req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": out})
}

func (s *Server) Validate(c *gin.Context) {
	var req ContentRequest
	if !bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, s.Studio.Validate(req.Content))
}
