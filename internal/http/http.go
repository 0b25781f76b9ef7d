package http

import (
	"github.com/gin-gonic/gin"
	"github.com/teyman11/voicebot/internal/appcontext"
	"github.com/teyman11/voicebot/internal/http/middleware"
)

type APIService struct {
	engine  *gin.Engine
	context *appcontext.Context
}

func NewHTTPService(ctx *appcontext.Context) *APIService {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORSMiddleware())

	service := &APIService{
		engine:  engine,
		context: ctx,
	}
	service.setupRoutes()
	return service
}

func (h *APIService) Engine() *gin.Engine {
	return h.engine
}

func (h *APIService) setupRoutes() {
	api := h.engine.Group("/api")
	h.setupMenuItemRoutes(api)
	h.setupFAQRoutes(api)
	h.setupOrderRoutes(api)
	h.setupReservationRoutes(api)
	h.setupCallLogRoutes(api)

	h.engine.POST("/inbound_call", InboundCall(h.context))
	h.engine.GET("/health", HealthCheck(h.context))
	h.engine.GET("/", Root())
}

func (h *APIService) setupMenuItemRoutes(group *gin.RouterGroup) {
	menuItems := group.Group("/menu-items")

	menuItems.GET("", GetMenuItems(h.context))
	menuItems.POST("", AddMenuItem(h.context))
	menuItems.PUT("/:id", UpdateMenuItem(h.context))
	menuItems.DELETE("/:id", DeleteMenuItem(h.context))
}

func (h *APIService) setupFAQRoutes(group *gin.RouterGroup) {
	faqs := group.Group("/faqs")

	faqs.GET("", GetFAQs(h.context))
	faqs.POST("", AddFAQ(h.context))
	faqs.PUT("/:id", UpdateFAQ(h.context))
	faqs.DELETE("/:id", DeleteFAQ(h.context))
}

func (h *APIService) setupOrderRoutes(group *gin.RouterGroup) {
	orders := group.Group("/orders")

	orders.GET("", GetOrders(h.context))
	orders.POST("", AddOrder(h.context))
	orders.PUT("/:id", UpdateOrder(h.context))
	orders.DELETE("/:id", DeleteOrder(h.context))

	// Tool-call ingestion from the voice assistant.
	group.POST("/order-complete", OrderComplete(h.context))
}

func (h *APIService) setupReservationRoutes(group *gin.RouterGroup) {
	reservations := group.Group("/reservations")

	reservations.GET("", GetReservations(h.context))
	reservations.POST("", AddReservation(h.context))
	reservations.PUT("/:id", UpdateReservation(h.context))
	reservations.DELETE("/:id", DeleteReservation(h.context))

	group.POST("/reservation-complete", ReservationComplete(h.context))
}

func (h *APIService) setupCallLogRoutes(group *gin.RouterGroup) {
	callLogs := group.Group("/call-logs")

	callLogs.GET("", GetCallLogs(h.context))
}
