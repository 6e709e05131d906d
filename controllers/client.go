package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bgbghq67-sys/banga-photobooth-admin/core"
	"github.com/bgbghq67-sys/banga-photobooth-admin/internal/ledger"
	"github.com/bgbghq67-sys/banga-photobooth-admin/middleware"
)

// ClientController serves the kiosk side: registration, heartbeats and
// session consumption. Callers identify themselves by machine fingerprint
// only.
type ClientController struct {
	Ledger *ledger.Ledger
	Logger *zap.SugaredLogger
	Config *core.Config
}

// RegisterAlive answers the keep-alive pings the desktop app issues against
// the register endpoint.
func (cc ClientController) RegisterAlive(c *gin.Context) {
	middleware.RespondOK(c, gin.H{
		"message":   "Register endpoint is alive",
		"timestamp": time.Now().UnixMilli(),
	})
}

func (cc ClientController) Register(c *gin.Context) {
	type requestPayload struct {
		MachineID        string `json:"machineId"`
		MachineName      string `json:"machineName"`
		ProvisioningCode string `json:"provisioningCode"`
	}

	var payload requestPayload
	if err := c.BindJSON(&payload); err != nil {
		middleware.RespondErr(c, middleware.APIErrorInvalidRequest, "invalid request payload: "+err.Error())
		return
	}
	if payload.MachineID == "" {
		middleware.RespondErr(c, middleware.APIErrorInvalidRequest, "Machine ID is required")
		return
	}

	ctx, cancel := boundedContext(c, cc.Config)
	defer cancel()

	device, isNew, err := cc.Ledger.RegisterOrTouch(ctx, payload.MachineID, payload.MachineName, payload.ProvisioningCode)
	if err != nil {
		respondLedgerError(c, cc.Logger, err, "register device")
		return
	}

	middleware.RespondOK(c, gin.H{
		"isNew":             isNew,
		"deviceId":          device.ID,
		"deviceName":        device.Name,
		"remainingSessions": device.RemainingSessions,
		"activated":         device.ActivatedNow(),
	})
}

func (cc ClientController) Heartbeat(c *gin.Context) {
	type requestPayload struct {
		MachineID string `json:"machineId"`
	}

	var payload requestPayload
	if err := c.BindJSON(&payload); err != nil {
		middleware.RespondErr(c, middleware.APIErrorInvalidRequest, "invalid request payload: "+err.Error())
		return
	}
	if payload.MachineID == "" {
		middleware.RespondErr(c, middleware.APIErrorInvalidRequest, "Machine ID is required")
		return
	}

	ctx, cancel := boundedContext(c, cc.Config)
	defer cancel()

	device, err := cc.Ledger.Heartbeat(ctx, payload.MachineID)
	if err != nil {
		respondLedgerError(c, cc.Logger, err, "process heartbeat")
		return
	}

	middleware.RespondOK(c, gin.H{
		"deviceId":          device.ID,
		"deviceName":        device.Name,
		"remainingSessions": device.RemainingSessions,
	})
}

func (cc ClientController) Decrement(c *gin.Context) {
	type requestPayload struct {
		MachineID string `json:"machineId"`
	}

	var payload requestPayload
	if err := c.BindJSON(&payload); err != nil {
		middleware.RespondErr(c, middleware.APIErrorInvalidRequest, "invalid request payload: "+err.Error())
		return
	}
	if payload.MachineID == "" {
		middleware.RespondErr(c, middleware.APIErrorInvalidRequest, "Machine ID is required")
		return
	}

	ctx, cancel := boundedContext(c, cc.Config)
	defer cancel()

	remaining, err := cc.Ledger.DecrementOne(ctx, payload.MachineID)
	if err != nil {
		respondLedgerError(c, cc.Logger, err, "decrement session")
		return
	}

	middleware.RespondOK(c, gin.H{"remainingSessions": remaining})
}
