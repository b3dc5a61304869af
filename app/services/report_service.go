package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/pkg/cache"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
	"github.com/shashiranjanraj/orderdesk/pkg/validate"
)

// DefaultRecentLimit is used when RecentOrders is asked for zero orders.
const DefaultRecentLimit = 5

// Cached dashboards are keyed by generation and month. Invalidation starts a
// new generation, which retires every month at once.
const (
	dashboardKeyPrefix = "dashboard:"
	dashboardGenKey    = "dashboard:generation"
)

// DashboardMetrics summarises the customer base and the current month.
type DashboardMetrics struct {
	CustomerCount   int64           `json:"customer_count"`
	MonthOrderCount int64           `json:"month_order_count"`
	MonthAvgTotal   decimal.Decimal `json:"month_avg_total"`
	MonthStart      string          `json:"month_start"`
}

// ReportFilter narrows FilteredOrders. Nil fields impose no constraint;
// dates are inclusive YYYY-MM-DD bounds.
type ReportFilter struct {
	CustomerID *uint   `json:"customer_id"`
	DateFrom   *string `json:"date_from" validate:"nullable,date"`
	DateTo     *string `json:"date_to"   validate:"nullable,date"`
}

// ReportService answers the read-only aggregate queries.
type ReportService struct {
	orders    *repositories.OrderRepository
	customers *repositories.CustomerRepository
	cache     cache.Store
	ttl       time.Duration
}

// ReportOption configures a ReportService.
type ReportOption func(*ReportService)

// WithDashboardCache caches DashboardMetrics per month for ttl.
func WithDashboardCache(store cache.Store, ttl time.Duration) ReportOption {
	return func(s *ReportService) {
		s.cache = store
		s.ttl = ttl
	}
}

func NewReportService(db *gorm.DB, opts ...ReportOption) *ReportService {
	s := &ReportService{
		orders:    repositories.NewOrderRepository(db),
		customers: repositories.NewCustomerRepository(db),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MonthStart returns the first day of now's month as YYYY-MM-DD.
func MonthStart(now time.Time) string {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(models.DateLayout)
}

// DashboardMetrics counts all customers and the orders dated on or after
// the first day of now's month. The average is zero when there are none.
func (s *ReportService) DashboardMetrics(ctx context.Context, now time.Time) (DashboardMetrics, error) {
	defer metrics.ObserveQuery("dashboard", time.Now())

	from := MonthStart(now)
	key := s.dashboardKey(ctx, from)

	var out DashboardMetrics
	if key != "" && s.cache.Get(ctx, key, &out) {
		return out, nil
	}

	customers, err := s.customers.Count(ctx)
	if err != nil {
		return DashboardMetrics{}, fmt.Errorf("dashboard customer count: %w", err)
	}

	stats, err := s.orders.StatsSince(ctx, from)
	if err != nil {
		return DashboardMetrics{}, fmt.Errorf("dashboard month stats: %w", err)
	}

	out = DashboardMetrics{
		CustomerCount:   customers,
		MonthOrderCount: stats.Count,
		MonthAvgTotal:   decimal.Zero,
		MonthStart:      from,
	}
	if stats.Count > 0 && stats.Avg.Valid {
		out.MonthAvgTotal = stats.Avg.Decimal.Round(2)
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, out, s.ttl); err != nil {
			logger.WithCtx(ctx).Warn("dashboard cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}

// InvalidateDashboard drops the cached metrics of every month.
func (s *ReportService) InvalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardGenKey, uuid.NewString(), 0); err != nil {
		logger.WithCtx(ctx).Warn("dashboard cache invalidation failed", "error", err)
		// Without a new generation the old entries would be served again.
		_ = s.cache.Del(ctx, dashboardGenKey)
	}
}

// dashboardKey returns the cache key for month, or "" when the dashboard
// must not be cached.
func (s *ReportService) dashboardKey(ctx context.Context, month string) string {
	if s.cache == nil {
		return ""
	}
	var gen string
	if !s.cache.Get(ctx, dashboardGenKey, &gen) {
		gen = uuid.NewString()
		if err := s.cache.Set(ctx, dashboardGenKey, gen, 0); err != nil {
			logger.WithCtx(ctx).Warn("dashboard cache generation write failed", "error", err)
			return ""
		}
	}
	return dashboardKeyPrefix + gen + ":" + month
}

// RecentOrders returns the limit newest orders by id, each with all of its
// lines, newest first.
func (s *ReportService) RecentOrders(ctx context.Context, limit int) ([]OrderSummary, error) {
	defer metrics.ObserveQuery("recent_orders", time.Now())

	if limit < 0 {
		return nil, invalid("limit", "The limit must be greater than or equal to 0.")
	}
	if limit == 0 {
		limit = DefaultRecentLimit
	}

	ids, err := s.orders.RecentIDs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent order ids: %w", err)
	}

	rows, err := s.orders.RowsForOrders(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("recent order rows: %w", err)
	}
	return groupRows(rows), nil
}

// FilteredOrders returns the orders matching f, sorted by date desc and
// then id desc, each with all of its lines.
func (s *ReportService) FilteredOrders(ctx context.Context, f ReportFilter) ([]OrderSummary, error) {
	defer metrics.ObserveQuery("filtered_orders", time.Now())

	if err := f.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.orders.ReportRows(ctx, repositories.OrderFilter{
		CustomerID: f.CustomerID,
		DateFrom:   f.DateFrom,
		DateTo:     f.DateTo,
	})
	if err != nil {
		return nil, fmt.Errorf("filtered orders: %w", err)
	}
	return groupRows(rows), nil
}

// AnalysisContext renders the dashboard and the newest orders as plain
// text, suitable as context for an analysis prompt.
func (s *ReportService) AnalysisContext(ctx context.Context, now time.Time, limit int) (string, error) {
	dash, err := s.DashboardMetrics(ctx, now)
	if err != nil {
		return "", err
	}
	recent, err := s.RecentOrders(ctx, limit)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Customers: %d\n", dash.CustomerCount)
	fmt.Fprintf(&b, "Orders since %s: %d\n", dash.MonthStart, dash.MonthOrderCount)
	fmt.Fprintf(&b, "Average order total this month: %s\n", dash.MonthAvgTotal.StringFixed(2))

	if len(recent) == 0 {
		b.WriteString("\nNo orders yet.\n")
		return b.String(), nil
	}

	b.WriteString("\nRecent orders:\n")
	for _, o := range recent {
		fmt.Fprintf(&b, "- #%d %s %s total %s\n", o.ID, o.Date, o.CustomerName, o.Total.StringFixed(2))
		for _, l := range o.Lines {
			fmt.Fprintf(&b, "    %d x %s @ %s (%s)\n", l.Quantity, l.ProductName, l.UnitPrice.StringFixed(2), l.Kind)
		}
	}
	return b.String(), nil
}

// Validate reports malformed date bounds as a ValidationError.
func (f ReportFilter) Validate() error {
	if errs := validate.Struct(f); validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}
	return nil
}
