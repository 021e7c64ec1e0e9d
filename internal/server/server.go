package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/config"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/handlers"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/metrics"
)

type Server struct {
	config     *config.Config
	router     *gin.Engine
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(h *handlers.Handlers, cfg *config.Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestMetrics())

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/live", s.handlers.Live)
	s.router.GET("/version", s.handlers.Version)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/products", s.handlers.BrowseProducts)
		v1.GET("/products/:id", s.handlers.GetProduct)
		v1.GET("/products/:id/share", s.handlers.ShareProduct)
		v1.GET("/categories", s.handlers.ListCategories)

		v1.GET("/cart", s.handlers.GetCart)
		v1.POST("/cart/items", s.handlers.AddToCart)
		v1.PATCH("/cart/items/:id", s.handlers.UpdateCartItem)
		v1.DELETE("/cart/items/:id", s.handlers.RemoveCartItem)

		v1.POST("/checkout", s.handlers.StartCheckout)
		v1.GET("/checkout", s.handlers.GetCheckout)
		v1.POST("/checkout/info", s.handlers.SubmitCheckoutInfo)
		v1.POST("/checkout/fulfillment", s.handlers.ChooseFulfillment)
		v1.POST("/checkout/place", s.handlers.PlaceOrder)
		v1.POST("/checkout/back", s.handlers.CheckoutBack)
		v1.DELETE("/checkout", s.handlers.ResetCheckout)

		v1.GET("/orders", s.handlers.OrderHistory)

		v1.POST("/chat/bootstrap", s.handlers.BootstrapChat)
		v1.GET("/chat", s.handlers.GetChatWidget)
		v1.POST("/chat/messages", s.handlers.SendChatMessage)
		v1.POST("/chat/active", s.handlers.SetChatActive)
		v1.GET("/chat/stream", s.handlers.StreamChat)

		v1.POST("/admin/messages", s.handlers.ReceiveAdminMessage)

		v1.GET("/pages", s.handlers.ListPages)
		v1.GET("/pages/:slug", s.handlers.GetPage)
	}
}

// requestMetrics records request latency per route and status. SSE
// streams show up with their full connection lifetime, which is expected.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
