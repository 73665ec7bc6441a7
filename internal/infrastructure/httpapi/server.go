package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ArgusIntel/internal/domain"
	"ArgusIntel/internal/ports"
	"ArgusIntel/internal/usecase"
)

// Server exposes the read-only dashboard API on top of the persistence
// layer. The analysis core has no query interface of its own.
type Server struct {
	repository ports.IntelligenceRepository
	reporter   *usecase.Reporter
	logger     *slog.Logger
	router     *gin.Engine
}

// NewServer builds the router with all query endpoints registered.
func NewServer(repo ports.IntelligenceRepository, reporter *usecase.Reporter, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		repository: repo,
		reporter:   reporter,
		logger:     logger,
		router:     gin.New(),
	}

	s.router.Use(gin.Recovery())

	api := s.router.Group("/api")
	{
		api.GET("/summary", s.summary)
		api.GET("/articles", s.articles)
		api.GET("/alerts", s.alerts)
		api.GET("/report", s.report)
	}

	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks serving the API on the given address.
func (s *Server) Run(addr string) error {
	if s.logger != nil {
		s.logger.Info("dashboard api listening", "addr", addr)
	}
	return s.router.Run(addr)
}

func (s *Server) summary(c *gin.Context) {
	summary, err := s.repository.ThreatSummary(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"high":   summary.High,
		"medium": summary.Medium,
		"low":    summary.Low,
	})
}

func (s *Server) articles(c *gin.Context) {
	level := domain.ParseThreatLevel(c.DefaultQuery("level", "HIGH"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	headlines, err := s.repository.RecentByLevel(c.Request.Context(), level, limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	type item struct {
		Title          string    `json:"title"`
		URL            string    `json:"url"`
		Level          string    `json:"threat_level"`
		RelevanceScore float64   `json:"relevance_score"`
		KeyIndicators  []string  `json:"key_indicators,omitempty"`
		ScrapedAt      time.Time `json:"scraped_at"`
	}

	items := make([]item, 0, len(headlines))
	for _, h := range headlines {
		items = append(items, item{
			Title:          h.Title,
			URL:            h.URL,
			Level:          h.Level.String(),
			RelevanceScore: h.RelevanceScore,
			KeyIndicators:  h.KeyIndicators,
			ScrapedAt:      h.ScrapedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"articles": items})
}

func (s *Server) alerts(c *gin.Context) {
	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	count, err := s.repository.AlertCountSince(c.Request.Context(), time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hours": hours, "count": count})
}

func (s *Server) report(c *gin.Context) {
	text, err := s.reporter.Build(c.Request.Context(), time.Now())
	if err != nil {
		s.fail(c, err)
		return
	}

	c.String(http.StatusOK, text)
}

func (s *Server) fail(c *gin.Context, err error) {
	if s.logger != nil {
		s.logger.Error("query failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
}
