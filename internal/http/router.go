package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/repo"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "userhub"

type Deps struct {
	Cfg     config.Config
	Backend repo.Backend
	JWT     *auth.Manager
	// Limiter backs the register/login rate limit; nil disables it.
	Limiter middlewares.Counter
	// Prom and Gatherer are optional; /metrics is only mounted with a Gatherer.
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Tracing  bool
}

func NewRouter(log *slog.Logger, deps Deps) *gin.Engine {
	if deps.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(middlewares.RequestID())
	r.Use(middlewares.ErrorHandler(log, !deps.Cfg.IsProduction()))
	r.Use(middlewares.Recovery())

	if deps.Tracing {
		r.Use(otelgin.Middleware(serviceName))
	}
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	r.Use(middlewares.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "If-None-Match", "X-Request-Id"},
		ExposeHeaders:    []string{"ETag", "X-Request-Id", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middlewares.SecurityHeaders("/docs"))
	r.Use(middlewares.MaxBodyBytes(deps.Cfg.MaxBodyBytes))

	// health
	h := handlers.NewHealthHandler(deps.Backend.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// wire up handlers
	usersHandler := handlers.NewUsersHandler(deps.Backend.Users, deps.JWT)
	eventsHandler := handlers.NewEventsHandler(deps.Backend.Events)
	authMW := middlewares.NewAuthMiddleware(deps.JWT, deps.Backend.Users)

	limit := func(scope string) gin.HandlerFunc {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	if deps.Limiter != nil {
		rl := middlewares.NewRateLimiter(deps.Limiter, deps.Cfg.AuthRateLimit, deps.Cfg.AuthRateWindow(), log)
		limit = func(scope string) gin.HandlerFunc {
			return rl.RateLimiterMiddleware(scope, middlewares.KeyByIP)
		}
	}

	api := r.Group("/api")

	users := api.Group("/users")
	users.POST("", limit("register"), usersHandler.Register)
	users.POST("/login", limit("login"), usersHandler.Login)
	users.GET("/user", authMW.RequireAuth(), usersHandler.Me)
	users.GET("/list", authMW.RequireAuth(), usersHandler.List)

	events := api.Group("/events", authMW.RequireAuth())
	events.POST("", eventsHandler.CreateEvent)
	events.GET("", eventsHandler.ListMyEvents)

	return r
}
