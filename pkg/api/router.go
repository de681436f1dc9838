package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/urmzd/gaposa/pkg/api/handlers"
	"github.com/urmzd/gaposa/pkg/device"
	"github.com/urmzd/gaposa/pkg/schema"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine     *gin.Engine
	controller device.Controller
	validator  *schema.Validator
	metrics    http.Handler
}

// NewRouter creates a new API router. metrics may be nil, in which case
// /metrics is not served.
func NewRouter(controller device.Controller, validator *schema.Validator, metrics http.Handler) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	if validator == nil {
		validator = schema.NewValidator()
	}
	router := &Router{
		engine:     engine,
		controller: controller,
		validator:  validator,
		metrics:    metrics,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	healthHandler := handlers.NewHealthHandler(r.controller)
	r.engine.GET("/health", healthHandler.Health)

	if r.metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metrics))
	}

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		devicesHandler := handlers.NewDevicesHandler(r.controller)
		controlHandler := handlers.NewControlHandler(r.controller)
		schedulesHandler := handlers.NewSchedulesHandler(r.controller, r.validator)

		devices := v1.Group("/devices")
		{
			devices.GET("", devicesHandler.ListDevices)
			devices.GET("/:serial", devicesHandler.GetDevice)
			devices.POST("/:serial/refresh", devicesHandler.RefreshDevice)

			devices.POST("/:serial/motors/:id/:command", controlHandler.Motor)
			devices.POST("/:serial/groups/:id/:command", controlHandler.Group)

			devices.GET("/:serial/schedules", schedulesHandler.ListSchedules)
			devices.POST("/:serial/schedules", schedulesHandler.AddSchedule)
			devices.PATCH("/:serial/schedules/:id", schedulesHandler.SetActive)
			devices.DELETE("/:serial/schedules/:id", schedulesHandler.DeleteSchedule)
			devices.PUT("/:serial/schedules/:id/events/:slot", schedulesHandler.SetEvent)
			devices.DELETE("/:serial/schedules/:id/events/:slot", schedulesHandler.DeleteEvent)
		}
	}
}

// Handler returns the engine as an http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
