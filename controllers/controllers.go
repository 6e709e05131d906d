package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bgbghq67-sys/banga-photobooth-admin/core"
	"github.com/bgbghq67-sys/banga-photobooth-admin/middleware"
)

// boundedContext derives the context handed to store calls. The hosting
// environment kills long-idle requests, so every store round-trip fails fast
// instead of hanging.
func boundedContext(c *gin.Context, cfg *core.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), cfg.StoreTimeout)
}

// respondLedgerError converts a ledger failure into the JSON error envelope.
// Client-caused failures keep their short public message; everything else is
// logged with the correlation id and surfaced with the stage marker.
func respondLedgerError(c *gin.Context, logger *zap.SugaredLogger, err error, stage string) {
	apiErr := middleware.FromLedgerError(err)
	switch apiErr {
	case middleware.APIErrorInvalidRequest:
		middleware.RespondErr(c, apiErr, err.Error())
	case middleware.APIErrorNotFound:
		middleware.RespondErr(c, apiErr, "Device not found")
	case middleware.APIErrorNoSessions:
		middleware.RespondErr(c, apiErr, "No sessions remaining")
	default:
		reason := "failed to " + stage + ": " + err.Error()
		logger.Errorw(reason, "stage", stage, "requestId", middleware.GetRequestID(c))
		middleware.RespondErr(c, apiErr, reason, gin.H{"stage": stage})
	}
}
