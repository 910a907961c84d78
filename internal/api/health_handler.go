package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"socialnet/internal/session"
	pkgdb "socialnet/pkg/database"
	"socialnet/pkg/logger"
	pkgredis "socialnet/pkg/redis"
)

const healthCheckTimeout = 2 * time.Second

type HealthHandler struct {
	db       *sql.DB
	sessions session.Store
	redis    *redis.Client
	logger   logger.Logger
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
}

// NewHealthHandler takes the redis client only when sessions live in Redis;
// pass nil otherwise.
func NewHealthHandler(db *sql.DB, sessions session.Store, redisClient *redis.Client, logger logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		sessions: sessions,
		redis:    redisClient,
		logger:   logger,
	}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	services := map[string]interface{}{
		"database":      h.checkDatabaseHealth(ctx),
		"session_store": h.checkSessionStoreHealth(ctx),
	}
	if h.redis != nil {
		services["redis"] = pkgredis.Stats(h.redis)
	}

	status := "healthy"
	for _, name := range []string{"database", "session_store"} {
		if services[name].(map[string]interface{})["status"] != "healthy" {
			status = "degraded"
			break
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
		h.logger.WarnContext(r.Context(), "health check degraded", map[string]interface{}{"services": services})
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Services:  services,
	})
}

func (h *HealthHandler) checkDatabaseHealth(ctx context.Context) map[string]interface{} {
	if err := h.db.PingContext(ctx); err != nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}

	stats := pkgdb.Stats(h.db)
	stats["status"] = "healthy"
	return stats
}

func (h *HealthHandler) checkSessionStoreHealth(ctx context.Context) map[string]interface{} {
	if err := h.sessions.Ping(ctx); err != nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}
	return map[string]interface{}{"status": "healthy"}
}

func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	issues := make([]string, 0)
	if err := h.db.PingContext(ctx); err != nil {
		issues = append(issues, "database: "+err.Error())
	}
	if err := h.sessions.Ping(ctx); err != nil {
		issues = append(issues, "session_store: "+err.Error())
	}

	response := map[string]interface{}{
		"timestamp": time.Now().UTC(),
	}

	if len(issues) == 0 {
		response["status"] = "ready"
		writeJSON(w, http.StatusOK, response)
		return
	}

	response["status"] = "not_ready"
	response["issues"] = issues
	writeJSON(w, http.StatusServiceUnavailable, response)
}

func (h *HealthHandler) RegisterRoutes(rt *Router) {
	rt.Handle("GET /health", h.HealthCheck)
	rt.Handle("GET /health/live", h.LivenessCheck)
	rt.Handle("GET /health/ready", h.ReadinessCheck)
}
