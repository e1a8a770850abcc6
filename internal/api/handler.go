package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-disaster-hub/internal/catalog"
	"github.com/mr1hm/go-disaster-hub/internal/content"
	"github.com/mr1hm/go-disaster-hub/internal/models"
	"github.com/mr1hm/go-disaster-hub/internal/navigation"
	"github.com/mr1hm/go-disaster-hub/internal/observability"
	"github.com/mr1hm/go-disaster-hub/internal/repository"
	"github.com/mr1hm/go-disaster-hub/internal/session"
)

const maxMarkerLimit = 500

type Handler struct {
	catalog  *catalog.Catalog
	resolver *content.Resolver
	repo     repository.ReferenceRepository
	sessions *session.Registry
	metrics  *observability.Metrics
}

func NewHandler(cat *catalog.Catalog, repo repository.ReferenceRepository, sessions *session.Registry, metrics *observability.Metrics) *Handler {
	return &Handler{
		catalog:  cat,
		resolver: content.NewResolver(cat),
		repo:     repo,
		sessions: sessions,
		metrics:  metrics,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/navigation", h.getNavigation)
	api.GET("/pages/:page", h.getPage)
	api.GET("/markers", h.getMarkers)

	api.POST("/sessions", h.createSession)
	api.GET("/sessions/:id", h.getSession)
	api.DELETE("/sessions/:id", h.deleteSession)
	api.POST("/sessions/:id/navigate", h.navigate)
	api.GET("/sessions/:id/events", h.sessionEvents)
}

type sessionView struct {
	ID        string                 `json:"id"`
	Current   models.PageID          `json:"current"`
	Since     time.Time              `json:"since"`
	CreatedAt time.Time              `json:"created_at"`
	LastSeen  time.Time              `json:"last_seen"`
	Streams   int                    `json:"streams"`
	Menu      []navigation.MenuEntry `json:"menu"`
	Bundle    models.Envelope        `json:"bundle"`
}

type navigateRequest struct {
	Page string `json:"page" binding:"required"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getNavigation(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"brand":  h.catalog.Brand,
		"footer": h.catalog.Footer,
		"items":  h.catalog.Navigation,
	})
}

func (h *Handler) getPage(c *gin.Context) {
	page, err := models.ParsePageID(c.Param("page"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.resolve(page))
}

func (h *Handler) getMarkers(c *gin.Context) {
	filter := repository.Filter{
		Limit: 100, // Default when the limit param is not supplied
	}

	if t := c.Query("type"); t != "" {
		cat, err := models.ParseCategory(t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Category = &cat
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= maxMarkerLimit {
			filter.Limit = lim
		}
	}
	if o := c.Query("offset"); o != "" {
		off, err := strconv.Atoi(o)
		if err != nil || off < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
			return
		}
		filter.Offset = off
	}

	markers, err := h.repo.ListMarkers(c.Request.Context(), filter)
	if err != nil {
		slog.Error("failed to list markers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch markers",
		})
		return
	}

	fc := toGeoJSON(markers)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) createSession(c *gin.Context) {
	s := h.sessions.Create()
	h.metrics.ActiveSessions.Inc()
	slog.Info("session created", "id", s.ID)

	c.JSON(http.StatusCreated, h.view(s))
}

func (h *Handler) getSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) deleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		sessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"page\": <page id>}"})
		return
	}
	page, err := models.ParsePageID(req.Page)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}

	change := s.Navigate(page)
	h.metrics.Navigations.WithLabelValues(page.String()).Inc()
	slog.Debug("navigated", "session", s.ID, "from", change.From.String(), "to", change.To.String())

	c.JSON(http.StatusOK, h.view(s))
}

// sessionEvents streams the session's navigation changes as server-sent
// events. The first event reports the page current at connect time.
func (h *Handler) sessionEvents(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}

	id, ch := s.Broadcaster().Subscribe()
	defer s.Broadcaster().Unsubscribe(id)
	h.metrics.EventStreams.Inc()
	defer h.metrics.EventStreams.Dec()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("page", gin.H{"page": s.Current()})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case change, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("navigate", change)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func (h *Handler) resolve(page models.PageID) models.Envelope {
	b := h.resolver.Resolve(page)
	h.metrics.Resolutions.WithLabelValues(string(b.Kind())).Inc()
	return models.Wrap(b)
}

func (h *Handler) view(s *session.Session) sessionView {
	current := s.Current()
	return sessionView{
		ID:        s.ID,
		Current:   current,
		Since:     s.State().Since(),
		CreatedAt: s.CreatedAt,
		LastSeen:  s.LastSeen(),
		Streams:   s.Broadcaster().SubscriberCount(),
		Menu:      navigation.BuildMenu(h.catalog.Navigation, current),
		Bundle:    h.resolve(current),
	}
}

// SessionEnded is the registry's evict hook. It also sees LRU evictions,
// which never pass through a handler.
func SessionEnded(metrics *observability.Metrics) func(*session.Session) {
	return func(s *session.Session) {
		metrics.ActiveSessions.Dec()
		slog.Info("session ended", "id", s.ID, "page", s.Current().String(),
			"created_at", s.CreatedAt, "last_seen", s.LastSeen())
	}
}

func sessionError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	slog.Error("session lookup failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
