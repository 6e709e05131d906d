package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/bgbghq67-sys/banga-photobooth-admin/controllers"
	"github.com/bgbghq67-sys/banga-photobooth-admin/middleware"
)

type Router struct {
	HealthController  *controllers.HealthController
	DevicesController *controllers.DevicesController
	ClientController  *controllers.ClientController
}

func (r Router) RegisterRoutes(router gin.IRouter) {
	router.Use(middleware.RequestID)

	router.GET("/health", r.HealthController.Status)
	router.GET("/debug/db", r.HealthController.DebugStore)

	devices := router.Group("/devices")

	//
	// Admin surface
	//
	devices.GET("", r.DevicesController.ListDevices)
	devices.POST("", r.DevicesController.CreateDevice)
	devices.GET("/:id", r.DevicesController.GetDevice)
	devices.PUT("/:id", r.DevicesController.UpdateDevice)
	devices.DELETE("/:id", r.DevicesController.DeleteDevice)
	devices.POST("/:id/add-sessions", r.DevicesController.AddSessions)
	devices.POST("/:id/reset", r.DevicesController.ResetBinding)

	//
	// Kiosk surface
	//
	devices.GET("/register", r.ClientController.RegisterAlive)
	devices.POST("/register", r.ClientController.Register)
	devices.POST("/heartbeat", r.ClientController.Heartbeat)
	devices.POST("/decrement", r.ClientController.Decrement)
}
