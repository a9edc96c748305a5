// Package api exposes the stored articles and the ingestion pipeline over
// HTTP. Every response is a well-formed JSON envelope; only the ingest
// trigger can reject a caller, and only for a bad API key.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"papuanews/internal/config"
	"papuanews/internal/ingest"
	"papuanews/internal/store"
	"papuanews/internal/types"
)

// Source names accepted through the manual submission endpoint.
var allowedSources = map[string]bool{
	"detikcom":      true,
	"Kompas":        true,
	"Antara News":   true,
	"CNN Indonesia": true,
	"Kumparan":      true,
	"Tribun News":   true,
	"Seputar Papua": true,
}

// Server serves the article API.
type Server struct {
	store    store.Store
	ingester *ingest.Ingester
	cfg      config.APIConfig
	logger   *slog.Logger
}

// New creates a Server.
func New(st store.Store, in *ingest.Ingester, cfg config.APIConfig, logger *slog.Logger) *Server {
	return &Server{
		store:    st,
		ingester: in,
		cfg:      cfg,
		logger:   logger.With("component", "api"),
	}
}

// RegisterRoutes mounts all endpoints on the router.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/articles", s.listArticles)
	r.GET("/articles/:id", s.getArticle)
	r.POST("/articles", s.createArticle)
	r.POST("/ingest/run", s.runIngest)
	r.GET("/api/cron/scrape", s.cronScrape)
}

// Run starts the HTTP server on the configured address.
func (s *Server) Run() error {
	r := gin.New()
	r.Use(gin.Recovery())
	s.RegisterRoutes(r)
	s.logger.Info("api listening", "addr", s.cfg.Addr)
	return r.Run(s.cfg.Addr)
}

func (s *Server) health(c *gin.Context) {
	count, err := s.store.Count(c.Request.Context(), store.ListFilter{})
	status := "ok"
	if err != nil {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"store":    s.store.Name(),
		"articles": count,
		"time":     time.Now().Format(time.RFC3339),
	})
}

func errorEnvelope(message string) gin.H {
	return gin.H{
		"status":    types.StatusError,
		"message":   message,
		"timestamp": time.Now().Format(time.RFC3339),
	}
}

// listArticles returns stored articles newest first. The region comes from
// the x-region header first, then the query parameter; when one is set,
// only that region's articles are returned.
func (s *Server) listArticles(c *gin.Context) {
	region := c.GetHeader("x-region")
	if region == "" {
		region = c.Query("region")
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter := store.ListFilter{
		Region:   region,
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	}

	rows, err := s.store.List(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("list failed", "error", err)
		c.JSON(http.StatusOK, errorEnvelope(err.Error()))
		return
	}
	total, _ := s.store.Count(c.Request.Context(), filter)
	if rows == nil {
		rows = []store.StoredArticle{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   types.StatusSuccess,
		"total":    total,
		"articles": rows,
	})
}

func (s *Server) getArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusOK, errorEnvelope("invalid article id"))
		return
	}
	row, err := s.store.FindByID(c.Request.Context(), uint(id))
	if errors.Is(err, types.ErrNotFound) {
		c.JSON(http.StatusOK, errorEnvelope("article not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusOK, errorEnvelope(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": types.StatusSuccess, "article": row})
}

type createArticleRequest struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	ImageURL   string `json:"image_url"`
	SourceURL  string `json:"source_url"`
	SourceName string `json:"source_name"`
	Category   string `json:"category"`
	Region     string `json:"region"`
}

// createArticle accepts a manually submitted article from a recognized
// source. Unknown sources and duplicate URLs are reported in the envelope,
// not rejected at the transport level.
func (s *Server) createArticle(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, errorEnvelope("invalid request body"))
		return
	}
	if !allowedSources[req.SourceName] {
		c.JSON(http.StatusOK, errorEnvelope("source not allowed: "+req.SourceName))
		return
	}
	if req.Title == "" {
		c.JSON(http.StatusOK, errorEnvelope("title is required"))
		return
	}
	if err := config.ValidateURL(req.SourceURL); err != nil {
		c.JSON(http.StatusOK, errorEnvelope("invalid source_url: "+err.Error()))
		return
	}
	if !ingest.AcceptableURL(req.SourceURL) {
		c.JSON(http.StatusOK, errorEnvelope("source_url is not an article URL"))
		return
	}

	if _, err := s.store.FindBySourceURL(c.Request.Context(), req.SourceURL); err == nil {
		c.JSON(http.StatusOK, errorEnvelope("article already exists"))
		return
	}

	if req.Region == "" {
		req.Region = types.RegionGeneral
	}
	row := store.StoredArticle{
		Title:      req.Title,
		Summary:    req.Summary,
		ImageURL:   req.ImageURL,
		SourceURL:  req.SourceURL,
		SourceName: req.SourceName,
		Category:   req.Category,
		Region:     req.Region,
	}
	if err := s.store.Insert(c.Request.Context(), &row); err != nil {
		c.JSON(http.StatusOK, errorEnvelope(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": types.StatusSuccess, "article": row})
}

// runIngest triggers a full scrape-and-persist cycle. The API key comes
// from the x-api-key header or the key query parameter.
func (s *Server) runIngest(c *gin.Context) {
	key := c.GetHeader("x-api-key")
	if key == "" {
		key = c.Query("key")
	}
	if s.cfg.Key != "" && key != s.cfg.Key {
		c.JSON(http.StatusUnauthorized, errorEnvelope("invalid api key"))
		return
	}
	report := s.ingester.Run(c.Request.Context())
	c.JSON(http.StatusOK, report)
}

// cronScrape is the trigger used by hosted cron schedulers. It returns the
// same ingestion report as the authenticated endpoint.
func (s *Server) cronScrape(c *gin.Context) {
	report := s.ingester.Run(c.Request.Context())
	c.JSON(http.StatusOK, report)
}
