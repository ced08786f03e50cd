package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for /api/routes.
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

// GET /api/health reports the last persist failure so operators can see
// when changes are only held in memory.
func (h *Handler) Health(c *gin.Context) {
	body := gin.H{"status": "ok", "persisted": true}
	if err := h.Store.PersistError(); err != nil {
		body["status"] = "degraded"
		body["persisted"] = false
		body["persistError"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

// GET /api/routes
func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{"method": rt.Method, "path": rt.Path})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
