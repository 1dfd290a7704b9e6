package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/producthub/internal/config"
	"github.com/geocoder89/producthub/internal/http/handlers"
	"github.com/geocoder89/producthub/internal/http/middlewares"
	"github.com/geocoder89/producthub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "producthub"

// Deps are the collaborators the router wires into handlers. Prom, Gatherer
// and Ping may be nil.
type Deps struct {
	Accounts      handlers.Accounts
	Authenticator middlewares.Authenticator
	Catalog       handlers.Catalog
	Ping          func() error
	Prom          *observability.Prom
	Gatherer      prometheus.Gatherer
	Tracing       bool
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	if deps.Tracing {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))

	// health
	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	authMiddleware := middlewares.NewAuthMiddleware(deps.Authenticator, log)

	api := r.Group("/api")
	api.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	api.Use(middlewares.RequireJSON())
	api.Use(authMiddleware.Authenticate())

	authLimiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, time.Minute)
	authHandler := handlers.NewAuthHandler(deps.Accounts, log)

	authGroup := api.Group("/auth")
	if cfg.AuthRateLimit > 0 {
		authGroup.Use(authLimiter.RateLimiterMiddleware(middlewares.KeyByIP))
	}
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// role checks happen inside each handler
	products := handlers.NewProductsHandler(deps.Catalog, log)
	api.GET("/products", products.ListProducts)
	api.GET("/products/:id", products.GetProduct)
	api.POST("/products", products.CreateProduct)
	api.PUT("/products/:id", products.UpdateProduct)
	api.DELETE("/products/:id", products.DeleteProduct)

	categories := handlers.NewCategoriesHandler(deps.Catalog, log)
	api.GET("/categories", categories.ListCategories)
	api.POST("/categories", categories.CreateCategory)

	return r
}
