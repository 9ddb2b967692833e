package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/leave-api/internal/middleware"
	"github.com/noah-isme/leave-api/pkg/config"
	appErrors "github.com/noah-isme/leave-api/pkg/errors"
	"github.com/noah-isme/leave-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/leave-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/leave-api/pkg/middleware/requestid"
	"github.com/noah-isme/leave-api/pkg/response"
)

// RouterDeps collects what NewRouter mounts.
type RouterDeps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Verifier middleware.TokenVerifier
	Observer middleware.RequestObserver
	Auth     *AuthHandler
	Leave    *LeaveHandler
	Metrics  *MetricsHandler
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(middleware.Metrics(deps.Observer))
	r.Use(corsmiddleware.New(cfg.CORS))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})
	r.GET("/", func(c *gin.Context) {
		response.Message(c, http.StatusOK, "Welcome to Leave Application API")
	})
	r.GET("/health", deps.Metrics.Health)
	r.GET("/ready", deps.Metrics.Ready)
	r.GET("/metrics", deps.Metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	authn := middleware.JWT(deps.Verifier)

	users := api.Group("/user")
	{
		limited := users.Group("", middleware.RateLimitByIP(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
		limited.POST("/register", deps.Auth.Register)
		limited.POST("/login", deps.Auth.Login)
		users.GET("/me", authn, deps.Auth.Me)
	}

	reviewChain := func(h gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{authn}
		if cfg.Leave.ReviewRoleGate {
			chain = append(chain, middleware.RequireManagerRole())
		}
		return append(chain, h)
	}

	leave := api.Group("/leave")
	{
		leave.POST("/apply", authn, deps.Leave.Apply)
		leave.GET("/applications", authn, deps.Leave.List)
		if cfg.Leave.ExportsEnabled && deps.Leave.exporter != nil {
			leave.GET("/applications/export", authn, deps.Leave.Export)
		}
		leave.GET("/employee/:employeeId", authn, deps.Leave.ListByEmployee)
		leave.GET("/application/:id", authn, deps.Leave.Get)
		leave.PUT("/application/:id", reviewChain(deps.Leave.Review)...)
		leave.DELETE("/application/:id", reviewChain(deps.Leave.Delete)...)
		leave.GET("/statistics", authn, deps.Leave.Statistics)
	}

	return r
}
