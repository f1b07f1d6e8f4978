package api

import (
	"net/http"
	"strconv"
	"time"

	"marketplace/internal/apperr"
	"marketplace/internal/service"
	"marketplace/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	sessionHeader = "X-Session-Token"
	sessionKey    = "session"
)

// sessionRole restricts which sessions a route group accepts
type sessionRole int

const (
	anyRole sessionRole = iota
	customerRole
	adminRole
)

// Handler contains HTTP handlers
type Handler struct {
	identity *service.IdentityService
	catalog  *service.CatalogService
	offers   *service.OfferService
	chat     *service.ChatService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	identity *service.IdentityService,
	catalog *service.CatalogService,
	offers *service.OfferService,
	chat *service.ChatService,
) *Handler {
	return &Handler{
		identity: identity,
		catalog:  catalog,
		offers:   offers,
		chat:     chat,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(requestLogger(util.ComponentLogger("http")))
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/register", h.register)
		v1.POST("/login", h.login)
		v1.POST("/admin/login", h.adminLogin)
		v1.GET("/products", h.listProducts)
	}

	session := v1.Group("", h.requireSession(anyRole))
	{
		session.POST("/logout", h.logout)
		session.GET("/products/:id/image", h.productImage)
		session.GET("/chat/unread", h.unreadCount)
	}

	customer := v1.Group("", h.requireSession(customerRole))
	{
		customer.POST("/offers", h.createOffer)
		customer.GET("/offers", h.myOffers)
		customer.GET("/orders", h.myOrders)
		customer.GET("/chat", h.viewOwnThread)
		customer.POST("/chat", h.postCustomerMessage)
		customer.DELETE("/chat/view", h.leaveThread)
	}

	admin := v1.Group("/admin", h.requireSession(adminRole))
	{
		admin.POST("/products", h.addProduct)
		admin.DELETE("/products/:id", h.deleteProduct)
		admin.GET("/offers/pending", h.pendingOffers)
		admin.POST("/offers/:id/accept", h.acceptOffer)
		admin.POST("/offers/:id/reject", h.rejectOffer)
		admin.GET("/supply", h.supplyQueue)
		admin.POST("/offers/:id/supply", h.recordSupply)
		admin.GET("/chats", h.listThreads)
		admin.GET("/chats/:username", h.viewCustomerThread)
		admin.POST("/chats/:username", h.postAdminMessage)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// requireSession resolves the session token and rejects sessions of the wrong role with 403
func (h *Handler) requireSession(role sessionRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := h.identity.Session(c.GetHeader(sessionHeader))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		switch {
		case role == adminRole && !sess.Admin:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin session required"})
			return
		case role == customerRole && sess.Admin:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "customer session required"})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *service.Session {
	return c.MustGet(sessionKey).(*service.Session)
}

// respondError maps core error kinds to HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  string(apperr.KindOf(err)),
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

// requestLogger logs every request with its status and latency
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
