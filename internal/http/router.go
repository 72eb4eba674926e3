package http

import (
	"time"

	"github.com/T1-hotae/cursor-memo-db/internal/auth"
	"github.com/T1-hotae/cursor-memo-db/internal/config"
	"github.com/T1-hotae/cursor-memo-db/internal/http/handlers"
	"github.com/T1-hotae/cursor-memo-db/internal/http/middlewares"
	"github.com/T1-hotae/cursor-memo-db/internal/observability"
	"github.com/T1-hotae/cursor-memo-db/internal/redisclient"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter wires middleware and routes. rdb, reg, prom and dbPing may
// be nil; the router degrades to in-process rate limiting, no /metrics
// and an always-ready DB probe.
func NewRouter(store handlers.UserStore, rdb *redisclient.Client, reg *prometheus.Registry, prom *observability.Prom, dbPing func() error, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(otelgin.Middleware("memodb-api"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())

	// health + metrics

	pings := map[string]func() error{
		"postgres": dbPing,
	}

	if rdb != nil {
		pings["redis"] = func() error {
			ctx, cancel := config.WithTimeout(time.Second)
			defer cancel()
			return rdb.Ping(ctx)
		}
	}

	h := handlers.NewHealthHandler(pings)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	// auth wiring

	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	cookies := auth.NewCookieManager(cfg.Env == "prod", cfg.TokenTTL)
	session := middlewares.NewSessionMiddleware(tokens, cookies)
	authHandler := handlers.NewAuthHandler(store, tokens, cookies, prom)

	throttle := newAuthThrottle(rdb, cfg)

	authGroup := r.Group("/auth")
	authGroup.Use(session.CurrentSession())

	authGroup.POST("/register", throttle, authHandler.Register)
	authGroup.POST("/login", throttle, authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me)

	return r
}

// newAuthThrottle picks the shared redis limiter when redis is
// configured, otherwise the in-process one.
func newAuthThrottle(rdb *redisclient.Client, cfg config.Config) gin.HandlerFunc {
	if rdb != nil {
		return middlewares.NewRedisRateLimiter(rdb.Raw(), cfg.AuthRateLimit, cfg.AuthRateWindow).Middleware(middlewares.KeyByIP)
	}

	return middlewares.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow).Middleware(middlewares.KeyByIP)
}
