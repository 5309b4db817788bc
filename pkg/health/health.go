// Package health exposes liveness and readiness endpoints.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves /health and /ready.
type Handler struct {
	db      Pinger
	service string
}

// NewHandler creates a Handler that checks db on /ready.
func NewHandler(db *gorm.DB, service string) *Handler {
	var p Pinger
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			p = sqlDB
		}
	}
	return &Handler{db: p, service: service}
}

// RegisterRoutes registers the health endpoints on router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Liveness)
	router.GET("/ready", h.Readiness)
}

// Liveness always reports ok while the process serves requests.
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Readiness reports whether the database is reachable.
func (h *Handler) Readiness(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": h.service})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": h.service, "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": h.service})
}
