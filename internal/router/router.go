package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/patitas/vets-api/internal/handler"
	catalogHandler "github.com/patitas/vets-api/internal/handler/catalog"
	vetHandler "github.com/patitas/vets-api/internal/handler/vet"
	"github.com/patitas/vets-api/internal/middleware"
	"github.com/patitas/vets-api/pkg/auth"
)

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	vetH     *vetHandler.Handler
	catalogH *catalogHandler.Handler
	healthH  *handler.HealthHandler
	metrics  *routerMetrics
}

type RouterConfig struct {
	RateLimit     middleware.RateLimiterConfig
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(
	authMW *middleware.AuthMiddleware,
	vetH *vetHandler.Handler,
	catalogH *catalogHandler.Handler,
	healthH *handler.HealthHandler,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	metrics := initRouterMetrics(config.MetricsPrefix)

	r := &Router{
		engine:   engine,
		auth:     authMW,
		vetH:     vetH,
		catalogH: catalogH,
		healthH:  healthH,
		metrics:  metrics,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	health := api.Group("/health")
	{
		health.GET("/live", r.healthH.Liveness)
		health.GET("/ready", r.healthH.Readiness)
	}

	r.catalogH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(
		r.auth.Authenticate(),
		r.auth.RequireRole(auth.RoleVetOwner),
	)
	r.vetH.RegisterRoutes(api, protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
