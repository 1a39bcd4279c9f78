package http

import (
	"context"
	"errors"
	"log/slog"

	"github.com/geocoder89/mealhub/internal/access"
	"github.com/geocoder89/mealhub/internal/auth"
	"github.com/geocoder89/mealhub/internal/config"
	"github.com/geocoder89/mealhub/internal/http/handlers"
	"github.com/geocoder89/mealhub/internal/http/middlewares"
	"github.com/geocoder89/mealhub/internal/observability"
	"github.com/geocoder89/mealhub/internal/repo/memory"
	"github.com/geocoder89/mealhub/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

var errCatalogNotLoaded = errors.New("menu not loaded yet")

// Deps is everything the router wires into handlers. Prom, Gatherer and
// LimitStore are optional.
type Deps struct {
	Sessions *session.Manager
	Tokens   *auth.Manager
	Catalog  *memory.CatalogRepo
	Orders   *memory.OrdersRepo

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	LimitStore  middlewares.LimitStore
	ReadyChecks []handlers.ReadinessCheck
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	var metrics handlers.Metrics = handlers.NoopMetrics{}
	if deps.Prom != nil {
		metrics = deps.Prom
	}

	limitStore := deps.LimitStore
	if limitStore == nil {
		limitStore = middlewares.NewMemoryLimitStore(cfg.AuthRateLimit, cfg.AuthRateWindow)
	}

	sessionMW := middlewares.NewSessionMiddleware(deps.Tokens, deps.Sessions)
	policy := access.NewPolicy()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware("mealhub"))
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(sessionMW.LoadSession())

	// health

	checks := append([]handlers.ReadinessCheck{{
		Name: "catalog",
		Check: func(context.Context) error {
			if !deps.Catalog.Loaded() {
				return errCatalogNotLoaded
			}
			return nil
		},
	}}, deps.ReadyChecks...)

	h := handlers.NewHealthHandler(checks...)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// handlers

	authHandler := handlers.NewAuthHandler(deps.Sessions, deps.Tokens, metrics, log)
	viewsHandler := handlers.NewViewsHandler(deps.Catalog, deps.Orders)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, log)
	ordersHandler := handlers.NewOrdersHandler(deps.Orders, deps.Catalog, metrics, log)

	// public views

	r.GET("/", viewsHandler.Landing)
	r.GET("/about", viewsHandler.About)
	r.GET("/home", middlewares.RequireView(policy), viewsHandler.Home)

	// auth

	limited := middlewares.RateLimit(limitStore, middlewares.KeyByIP, log)
	r.POST("/signup", limited, authHandler.SignUp)
	r.POST("/login", limited, authHandler.Login)
	r.POST("/logout", authHandler.Logout)
	r.GET("/session", authHandler.Session)

	// catalog and orders

	r.GET("/menu", catalogHandler.Menu)
	r.GET("/special/:id", catalogHandler.Special)
	r.GET("/meal-list", catalogHandler.MealList)
	r.POST("/meal-list/orders", ordersHandler.PlaceOrder)
	r.GET("/order-history", ordersHandler.OrderHistory)
	r.GET("/my-orders", ordersHandler.MyOrders)

	// role-gated dashboards

	chef := r.Group("/chef-dashboard")
	chef.Use(middlewares.RequireView(policy))
	{
		chef.GET("", viewsHandler.ChefDashboard)
		chef.POST("/foods", catalogHandler.AddFood)
		chef.PUT("/special", catalogHandler.SetSpecial)
	}

	admin := r.Group("/admin-dashboard")
	admin.Use(middlewares.RequireView(policy))
	{
		admin.GET("", ordersHandler.AdminDashboard)
		admin.POST("/manage-orders", ordersHandler.ManageOrders)
	}

	return r
}
