package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"geonews/app/cfg"
	"geonews/app/database"
	"geonews/app/enrich"
	"geonews/app/recap"
	"geonews/app/sources"
)

func NewHandler(events database.EventRepository, recaps *recap.Generator, registry []sources.Source) *Handler {
	return &Handler{
		events:   events,
		recaps:   recaps,
		registry: registry,
	}
}

func (h *Handler) GetEvents(c *gin.Context) {
	hours := intQuery(c, "hours", 24, 1, 168)
	limit := intQuery(c, "limit", 100, 1, 500)
	offset := intQuery(c, "offset", 0, 0, 1<<30)

	filter := database.EventFilter{
		Since:    time.Now().UTC().Add(-time.Duration(hours) * time.Hour),
		Category: c.Query("category"),
		Source:   c.Query("source"),
		Limit:    limit,
		Offset:   offset,
	}

	total, err := h.events.CountEvents(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Database error", "operation", "count_events", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	events, err := h.events.ListEvents(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Database error", "operation", "list_events", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, toEventResponse(event))
	}

	c.JSON(http.StatusOK, EventsListResponse{
		Events:        responses,
		Total:         total,
		FilteredHours: hours,
	})
}

func (h *Handler) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.events.GetEvent(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_event", "id", id, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	c.JSON(http.StatusOK, toEventResponse(*event))
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.events.GetStats(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_events":       stats.TotalEvents,
		"events_last_24h":    stats.EventsLast24h,
		"events_by_category": stats.EventsByCategory,
		"events_by_source":   stats.EventsBySource,
		"last_update":        stats.LastUpdate,
	})
}

func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": []gin.H{
			{"id": enrich.CategoryMilitary, "name": "Military Activity", "color": "#ef4444", "icon": "explosion"},
			{"id": enrich.CategoryPolitical, "name": "Political", "color": "#3b82f6", "icon": "landmark"},
			{"id": enrich.CategoryCasualties, "name": "Casualties", "color": "#dc2626", "icon": "cross"},
			{"id": enrich.CategoryInfrastructure, "name": "Infrastructure", "color": "#f59e0b", "icon": "building"},
			{"id": enrich.CategoryGeneral, "name": "General News", "color": "#6b7280", "icon": "newspaper"},
		},
	})
}

func (h *Handler) GetRecapSources(c *gin.Context) {
	activity, err := h.recaps.AvailableSources(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "recap_sources", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	list := make([]gin.H, 0, len(activity))
	for _, a := range activity {
		list = append(list, gin.H{
			"source_name":  a.SourceName,
			"event_count":  a.EventCount,
			"latest_event": a.LatestEvent,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": list,
		"total":   len(list),
	})
}

func (h *Handler) GenerateRecap(c *gin.Context) {
	sourceName := c.Query("source_name")
	if sourceName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source_name is required"})
		return
	}
	hours := intQuery(c, "hours", 24, 1, 168)

	slog.Info("Generating recap", "source", sourceName, "hours", hours)

	result, err := h.recaps.Generate(c.Request.Context(), sourceName, hours)
	if err != nil {
		slog.Error("Recap generation failed", "source", sourceName, "error", err)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   "Failed to generate recap",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"recap":   result,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"version":   cfg.Get().Version,
		"sources":   len(h.registry),
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if stats, err := h.events.GetStats(c.Request.Context()); err == nil {
		health["events"] = stats.TotalEvents
	} else {
		health["status"] = "degraded"
	}

	c.JSON(http.StatusOK, health)
}

func intQuery(c *gin.Context, name string, fallback, min, max int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < min || value > max {
		return fallback
	}
	return value
}
