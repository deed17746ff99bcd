package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	billingdomain "github.com/Markinhos/antaeus/internal/billing/domain"
	"github.com/Markinhos/antaeus/internal/cache"
	"github.com/Markinhos/antaeus/internal/config"
	customerdomain "github.com/Markinhos/antaeus/internal/customer/domain"
	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
	"github.com/Markinhos/antaeus/internal/observability/logger"
	"github.com/Markinhos/antaeus/internal/observability/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server exposes billing status and manual triggers over HTTP.
type Server struct {
	log         *zap.Logger
	cfg         config.Config
	db          *gorm.DB
	invoices    invoicedomain.Repository
	customers   customerdomain.Repository
	billingSvc  billingdomain.Service
	triggerRate *triggerLimiter
	summary     *cache.TTLCache[string, statusSummary]
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Config    config.Config
	DB        *gorm.DB
	Invoices  invoicedomain.Repository
	Customers customerdomain.Repository
	Billing   billingdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		log:         p.Log.Named("server"),
		cfg:         p.Config,
		db:          p.DB,
		invoices:    p.Invoices,
		customers:   p.Customers,
		billingSvc:  p.Billing,
		triggerRate: newTriggerLimiter(6, time.Minute),
		summary:     cache.NewTTLCache[string, statusSummary](),
	}
}

// Router builds the gin engine with middleware and all routes.
func (s *Server) Router(httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(logger.MiddlewareConfig{SkipPaths: []string{"/healthz", "/metrics"}}))
	r.Use(metrics.GinMiddleware(httpMetrics))

	r.GET("/healthz", s.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.GET("/invoices", s.ListInvoices)
		v1.GET("/invoices/:id", s.GetInvoice)
		v1.GET("/customers", s.ListCustomers)
		v1.GET("/customers/:id", s.GetCustomer)
		v1.GET("/billing/summary", s.GetBillingSummary)
		v1.POST("/billing/charge", s.ChargeInvoices)
		v1.POST("/billing/retry", s.RetryInvoices)
	}
	return r
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Provide(func(cfg config.Config) (*metrics.HTTPMetrics, error) {
		provider := metrics.NewMeterProvider()
		return metrics.NewHTTPMetrics(metrics.Config{ServiceName: cfg.Tracing.ServiceName, Environment: cfg.Environment}, provider)
	}),
	fx.Invoke(Run),
)

// Run starts the HTTP listener tied to the fx lifecycle.
func Run(lc fx.Lifecycle, s *Server, httpMetrics *metrics.HTTPMetrics) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.Router(httpMetrics),
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
