package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler handles liveness and system info endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	pinger    Pinger
}

// Pinger reports backing-store reachability
type Pinger interface {
	Ping() error
}

// NewSystemHandler creates a new SystemHandler. pinger may be nil, in which
// case readiness reports only process liveness.
func NewSystemHandler(pinger Pinger) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		pinger:    pinger,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	GoVersion string `json:"goVersion"`
	Uptime    string `json:"uptime"`
}

// Health reports liveness
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "maplapi",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready reports readiness including database reachability
func (h *SystemHandler) Ready(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger.Ping(); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	h.Success(c, gin.H{"ready": true})
}
