package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bgbghq67-sys/banga-photobooth-admin/core"
	"github.com/bgbghq67-sys/banga-photobooth-admin/internal/ledger"
	"github.com/bgbghq67-sys/banga-photobooth-admin/middleware"
)

// DevicesController serves the admin side: CRUD, top-ups and binding resets.
type DevicesController struct {
	Ledger *ledger.Ledger
	Logger *zap.SugaredLogger
	Config *core.Config
}

func (dc DevicesController) ListDevices(c *gin.Context) {
	ctx, cancel := boundedContext(c, dc.Config)
	defer cancel()

	devices, err := dc.Ledger.List(ctx)
	if err != nil {
		respondLedgerError(c, dc.Logger, err, "fetch devices")
		return
	}

	middleware.RespondOK(c, gin.H{"devices": devices})
}

func (dc DevicesController) CreateDevice(c *gin.Context) {
	type requestPayload struct {
		Name              string `json:"name"`
		RemainingSessions *int64 `json:"remainingSessions"`
	}

	var payload requestPayload
	if err := c.BindJSON(&payload); err != nil {
		middleware.RespondErr(c, middleware.APIErrorInvalidRequest, "invalid request payload: "+err.Error())
		return
	}

	ctx, cancel := boundedContext(c, dc.Config)
	defer cancel()

	device, err := dc.Ledger.Create(ctx, payload.Name, payload.RemainingSessions)
	if err != nil {
		respondLedgerError(c, dc.Logger, err, "create device")
		return
	}

	middleware.RespondOK(c, gin.H{"device": device})
}

func (dc DevicesController) GetDevice(c *gin.Context) {
	ctx, cancel := boundedContext(c, dc.Config)
	defer cancel()

	device, err := dc.Ledger.Get(ctx, c.Param("id"))
	if err != nil {
		respondLedgerError(c, dc.Logger, err, "fetch device")
		return
	}

	middleware.RespondOK(c, gin.H{"device": device})
}

func (dc DevicesController) UpdateDevice(c *gin.Context) {
	type requestPayload struct {
		Name              *string `json:"name"`
		RemainingSessions *int64  `json:"remainingSessions"`
	}

	var payload requestPayload
	if err := c.BindJSON(&payload); err != nil {
		middleware.RespondErr(c, middleware.APIErrorInvalidRequest, "invalid request payload: "+err.Error())
		return
	}

	ctx, cancel := boundedContext(c, dc.Config)
	defer cancel()

	err := dc.Ledger.Update(ctx, c.Param("id"), payload.Name, payload.RemainingSessions)
	if err != nil {
		respondLedgerError(c, dc.Logger, err, "update device")
		return
	}

	middleware.RespondOK(c, gin.H{"message": "Device updated"})
}

func (dc DevicesController) DeleteDevice(c *gin.Context) {
	ctx, cancel := boundedContext(c, dc.Config)
	defer cancel()

	if err := dc.Ledger.Delete(ctx, c.Param("id")); err != nil {
		respondLedgerError(c, dc.Logger, err, "delete device")
		return
	}

	middleware.RespondOK(c, gin.H{"message": "Device deleted"})
}

func (dc DevicesController) AddSessions(c *gin.Context) {
	type requestPayload struct {
		Sessions *int64 `json:"sessions"`
	}

	var payload requestPayload
	if err := c.BindJSON(&payload); err != nil {
		middleware.RespondErr(c, middleware.APIErrorInvalidRequest, "invalid request payload: "+err.Error())
		return
	}
	if payload.Sessions == nil {
		middleware.RespondErr(c, middleware.APIErrorInvalidRequest, "Invalid session count")
		return
	}

	ctx, cancel := boundedContext(c, dc.Config)
	defer cancel()

	newTotal, err := dc.Ledger.AddSessions(ctx, c.Param("id"), *payload.Sessions)
	if err != nil {
		respondLedgerError(c, dc.Logger, err, "add sessions")
		return
	}

	middleware.RespondOK(c, gin.H{
		"message":  fmt.Sprintf("Added %d sessions", *payload.Sessions),
		"newTotal": newTotal,
	})
}

func (dc DevicesController) ResetBinding(c *gin.Context) {
	ctx, cancel := boundedContext(c, dc.Config)
	defer cancel()

	if err := dc.Ledger.ResetBinding(ctx, c.Param("id")); err != nil {
		respondLedgerError(c, dc.Logger, err, "reset machine binding")
		return
	}

	middleware.RespondOK(c, gin.H{"message": "Machine binding reset"})
}
