package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/pet-comb/app/database"
	"github.com/lysyi3m/pet-comb/app/feed"
)

func NewHandler(syncer *feed.Syncer, view *feed.View, petRepo database.PetRepository,
	stateRepo database.StateRepository, config *feed.Config) *Handler {
	return &Handler{
		syncer:    syncer,
		view:      view,
		petRepo:   petRepo,
		stateRepo: stateRepo,
		config:    config,
	}
}

func (h *Handler) GetPets(c *gin.Context) {
	listings, err := h.view.Run(c.Request.Context())
	if err != nil {
		slog.Error("Listing view error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pets":  listings,
		"total": len(listings),
	})
}

func (h *Handler) PostRefresh(c *gin.Context) {
	result, err := h.syncer.Run(c.Request.Context())

	var fetchErr *feed.FetchError
	switch {
	case err == nil:
	case errors.Is(err, feed.ErrRefreshInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Refresh already in progress"})
		return
	case errors.Is(err, feed.ErrMalformedFeed):
		slog.Error("Refresh failed", "reason", "malformed_feed", "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Provider returned a malformed feed"})
		return
	case errors.As(err, &fetchErr):
		slog.Error("Refresh failed", "reason", "fetch", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch provider feed"})
		return
	default:
		slog.Error("Refresh failed", "reason", "storage", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to merge refresh batch"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":        result.Total,
		"new":          result.New,
		"touched":      result.Touched,
		"refreshed_at": result.RefreshedAt.Format(time.RFC3339),
	})
}

func (h *Handler) PostReject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pet id"})
		return
	}

	// Unknown ids are a silent no-op: rejecting an already gone listing
	// is not an error.
	if err := h.petRepo.MarkRejected(c.Request.Context(), id, time.Now().UTC()); err != nil {
		slog.Error("Database error", "operation", "mark_rejected", "pet_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject pet"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if petCount, err := h.petRepo.GetPetCount(c.Request.Context()); err == nil {
		health["pets"] = petCount
	}

	if lastRefresh, ok, err := h.stateRepo.GetLastRefresh(c.Request.Context()); err == nil && ok {
		health["last_refresh"] = lastRefresh.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	total, active, rejected, err := h.petRepo.GetPetStats(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_pet_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	stats := gin.H{
		"pets": gin.H{
			"total":    total,
			"active":   active,
			"rejected": rejected,
		},
		"region_prefix":    h.config.StateAbbrev,
		"refresh_interval": (time.Duration(h.config.Settings.RefreshInterval) * time.Second).String(),
	}

	if lastRefresh, ok, err := h.stateRepo.GetLastRefresh(c.Request.Context()); err == nil && ok {
		stats["last_refresh"] = lastRefresh.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, stats)
}
