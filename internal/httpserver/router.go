package httpserver

import (
	"context"
	"errors"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"windstruck-api/internal/domain"
	ordersvc "windstruck-api/internal/service/order"
	"windstruck-api/internal/seed"
)

type ProductService interface {
	List(ctx context.Context, tag string, featured *bool) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

type OrderService interface {
	Create(ctx context.Context, req ordersvc.CreateRequest) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
}

type Seeder interface {
	Apply(ctx context.Context) (seed.Result, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps groups what the handlers need. Registry may be nil, in which case a
// private registry is created and /metrics serves only HTTP metrics.
type Deps struct {
	ProductSvc  ProductService
	OrderSvc    OrderService
	Seeder      Seeder
	Store       Pinger
	Registry    *prometheus.Registry
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger logrus.FieldLogger, deps Deps) (*gin.Engine, error) {
	if deps.ProductSvc == nil || deps.OrderSvc == nil || deps.Seeder == nil {
		return nil, errors.New("httpserver: product, order and seed services are required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	corsCfg := corsConfig(deps.CORSOrigins)
	if err := corsCfg.Validate(); err != nil {
		return nil, err
	}

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := newHTTPMetrics(reg)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), metrics.middleware(), cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))
	router.GET("/metrics", gin.WrapH(metricsHandler(reg)))

	h := &handlers{
		products: deps.ProductSvc,
		orders:   deps.OrderSvc,
		seeder:   deps.Seeder,
		logger:   logger,
	}
	router.GET("/", h.root)
	router.GET("/products", h.listProducts)
	router.GET("/products/:slug", h.getProduct)
	router.POST("/orders", h.createOrder)
	router.GET("/orders/:id", h.getOrder)
	router.POST("/seed", h.seed)

	return router, nil
}

// corsConfig allows any origin when origins is empty or contains "*".
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowCredentials = true
	cfg.AddAllowHeaders("Accept", "Authorization", requestIDHeader)
	cfg.AddExposeHeaders(requestIDHeader)

	for _, o := range origins {
		if o == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		// Echo the request origin; "*" is not allowed together with credentials.
		cfg.AllowOriginFunc = func(string) bool { return true }
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
