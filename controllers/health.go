package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bgbghq67-sys/banga-photobooth-admin/core"
	"github.com/bgbghq67-sys/banga-photobooth-admin/internal/ledger"
	"github.com/bgbghq67-sys/banga-photobooth-admin/middleware"
)

type HealthController struct {
	Ledger *ledger.Ledger
	Logger *zap.SugaredLogger
	Config *core.Config
}

func (h HealthController) Status(c *gin.Context) {
	ctx, cancel := boundedContext(c, h.Config)
	defer cancel()

	if err := h.Ledger.PingStore(ctx); err != nil {
		h.Logger.Errorw("store health check failed", "error", err, "requestId", middleware.GetRequestID(c))
		middleware.RespondErr(c, middleware.APIErrorStoreUnavailable, "Error checking store health")
		return
	}

	middleware.RespondOK(c, nil)
}

// DebugStore proves store connectivity by counting the devices collection
// and reporting the resolved store configuration.
func (h HealthController) DebugStore(c *gin.Context) {
	debugID := middleware.GetRequestID(c)

	ctx, cancel := boundedContext(c, h.Config)
	defer cancel()

	devicesCount, err := h.Ledger.Count(ctx)
	if err != nil {
		h.Logger.Errorw("store probe failed", "error", err, "debugId", debugID)
		middleware.RespondErr(c, middleware.APIErrorStoreUnavailable, "store probe failed: "+err.Error(), gin.H{
			"debugId": debugID,
			"store": gin.H{
				"database": h.Config.MongoDatabase,
				"hasURI":   h.Config.MongoURI != "",
			},
		})
		return
	}

	middleware.RespondOK(c, gin.H{
		"debugId":      debugID,
		"devicesCount": devicesCount,
		"store": gin.H{
			"database": h.Config.MongoDatabase,
			"hasURI":   h.Config.MongoURI != "",
		},
		"timestamp": time.Now().UnixMilli(),
	})
}
