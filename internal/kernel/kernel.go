// Package kernel assembles orderdesk: it builds the services around one
// store handle, wires the event listeners and mounts the HTTP surface.
//
// cmd/orderdesk boots it from config with Boot; tests build it from
// explicit Options with New.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	appgraphql "github.com/shashiranjanraj/orderdesk/app/graphql"
	"github.com/shashiranjanraj/orderdesk/app/controllers"
	"github.com/shashiranjanraj/orderdesk/app/listeners"
	"github.com/shashiranjanraj/orderdesk/app/routes"
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/audit"
	"github.com/shashiranjanraj/orderdesk/pkg/cache"
	"github.com/shashiranjanraj/orderdesk/pkg/database"
	"github.com/shashiranjanraj/orderdesk/pkg/event"
	"github.com/shashiranjanraj/orderdesk/pkg/graphql"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
	"github.com/shashiranjanraj/orderdesk/pkg/middleware"
	"github.com/shashiranjanraj/orderdesk/pkg/reqid"
	"github.com/shashiranjanraj/orderdesk/pkg/response"
	"github.com/shashiranjanraj/orderdesk/pkg/router"
	"github.com/shashiranjanraj/orderdesk/pkg/storage"
	"github.com/shashiranjanraj/orderdesk/pkg/workerpool"
)

const (
	defaultAuditWorkers = 2
	defaultAuditQueue   = 256
)

// Options are the already-opened dependencies of an App. Only DB is
// required.
type Options struct {
	DB      *gorm.DB
	Cache   cache.Store
	Audit   audit.Sink
	Storage *storage.Manager

	// ExportsDir is served read-only under /exports when set.
	ExportsDir string

	CommitTimeout time.Duration
	CacheTTL      time.Duration
	GraphQL       bool

	// AuditWorkers below zero writes audit entries inline.
	AuditWorkers int

	// Now is the clock the dashboard month is read from.
	Now func() time.Time
}

// App owns the services and the HTTP handler built around one store.
type App struct {
	DB        *gorm.DB
	Events    *event.Bus
	Audit     *audit.Recorder
	Customers *services.CustomerService
	Products  *services.ProductService
	Orders    *services.OrderService
	Reports   *services.ReportService
	Exports   *services.ExportService

	opts   Options
	pool   *workerpool.Pool
	router *router.Router
}

// New wires the services, listeners and routes over opts.
func New(opts Options) (*App, error) {
	if opts.DB == nil {
		return nil, errors.New("kernel: a database handle is required")
	}
	if opts.Audit == nil {
		opts.Audit = audit.Discard{}
	}

	a := wire(opts)
	if a.opts.AuditWorkers >= 0 {
		workers := a.opts.AuditWorkers
		if workers == 0 {
			workers = defaultAuditWorkers
		}
		a.pool = workerpool.New(workers,
			workerpool.WithQueue(defaultAuditQueue),
			workerpool.WithPanicHandler(func(r any) {
				logger.Error("audit worker panicked", "panic", r)
			}),
		)
	}
	a.Audit = audit.NewRecorder(opts.Audit, a.pool)
	listeners.Register(a.Events, a.Audit, a.Reports)

	if err := a.buildRouter(); err != nil {
		a.pool.Shutdown()
		return nil, err
	}
	return a, nil
}

// RouteTable lists the endpoints an App with the given GraphQL setting
// mounts. Nothing is opened and no handler is ever called.
func RouteTable(graphQL bool) ([]router.Route, error) {
	a := wire(Options{GraphQL: graphQL})
	a.Audit = audit.NewRecorder(nil, nil)
	if err := a.buildRouter(); err != nil {
		return nil, err
	}
	return a.Routes(), nil
}

func wire(opts Options) *App {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	a := &App{DB: opts.DB, opts: opts, Events: event.New()}

	var reportOpts []services.ReportOption
	if opts.Cache != nil {
		reportOpts = append(reportOpts, services.WithDashboardCache(opts.Cache, opts.CacheTTL))
	}

	a.Customers = services.NewCustomerService(opts.DB, a.Events)
	a.Products = services.NewProductService(opts.DB, a.Events)
	a.Orders = services.NewOrderService(opts.DB,
		services.WithOrderEvents(a.Events),
		services.WithCommitTimeout(opts.CommitTimeout),
	)
	a.Reports = services.NewReportService(opts.DB, reportOpts...)
	a.Exports = services.NewExportService(a.Reports, opts.Storage)
	return a
}

func (a *App) buildRouter() error {
	r := router.New()

	// Outermost first: metrics sees the full latency, the request id is set
	// before anything logs, and panics are logged with it.
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)

	r.Get("/health", "health", a.health)
	r.Get("/metrics", "metrics", metrics.Handler())

	routes.RegisterAPI(r, routes.Controllers{
		Customers: controllers.NewCustomerController(a.Customers),
		Products:  controllers.NewProductController(a.Products),
		Orders:    controllers.NewOrderController(a.Orders, a.Reports),
		Reports:   controllers.NewReportController(a.Reports, a.Exports, a.opts.Now),
		History:   controllers.NewHistoryController(a.Audit.Sink()),
	})

	if a.opts.GraphQL {
		schema, err := appgraphql.NewSchema(a.Reports, a.Orders, a.opts.Now)
		if err != nil {
			return fmt.Errorf("kernel: graphql schema: %w", err)
		}
		r.Post("/graphql", "graphql", graphql.Handler(schema))
	}

	if a.opts.ExportsDir != "" {
		files := http.StripPrefix("/exports/", http.FileServer(http.Dir(a.opts.ExportsDir)))
		r.Handle(http.MethodGet, "/exports/*", "exports", files)
	}

	a.router = r
	return nil
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("health: database unreachable", "error", err)
		response.Error(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}

// Handler is the root HTTP handler.
func (a *App) Handler() http.Handler { return a.router.Handler() }

// Routes lists every mounted endpoint.
func (a *App) Routes() []router.Route { return a.router.Routes() }

// Close drains pending audit writes and releases every dependency the App
// was given.
func (a *App) Close(ctx context.Context) error {
	a.pool.Shutdown()

	var errs []error
	if err := a.opts.Audit.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("audit: %w", err))
	}
	if a.opts.Cache != nil {
		if err := a.opts.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache: %w", err))
		}
	}
	if err := database.Close(a.DB); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
