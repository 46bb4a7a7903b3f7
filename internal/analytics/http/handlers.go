package analytichttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/atlas-pos/atlas-analytics/internal/analytics"
	"github.com/atlas-pos/atlas-analytics/internal/observability"
	"github.com/atlas-pos/atlas-analytics/internal/platform/httpx"
)

const (
	dateLayout     = "2006-01-02"
	requestTimeout = 5 * time.Second

	defaultSalesWindowDays     = 30
	defaultFinancialWindowDays = 90
)

// ReportService defines the analytics data contract used by the handler.
type ReportService interface {
	SalesReport(ctx context.Context, filter analytics.SalesFilter) (analytics.SalesReport, error)
	InventoryReport(ctx context.Context) (analytics.InventoryReport, error)
	FinancialReport(ctx context.Context, filter analytics.FinancialFilter) (analytics.FinancialReport, error)
}

// Handler serves the analytics endpoints as JSON.
type Handler struct {
	logger    *slog.Logger
	service   ReportService
	metrics   *observability.Metrics
	validator *validator.Validate
	now       func() time.Time
}

// NewHandler constructs the analytics HTTP handler. Metrics may be nil.
func NewHandler(logger *slog.Logger, service ReportService, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		metrics:   metrics,
		validator: validator.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

type rangeQuery struct {
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
}

// parseRange resolves the optional start/end query parameters to UTC day
// dates, defaulting to the trailing window ending today.
func (h *Handler) parseRange(r *http.Request, defaultDays int) (time.Time, time.Time, error) {
	q := rangeQuery{
		StartDate: strings.TrimSpace(r.URL.Query().Get("start_date")),
		EndDate:   strings.TrimSpace(r.URL.Query().Get("end_date")),
	}
	if err := h.validator.Struct(q); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: dates must be YYYY-MM-DD", httpx.ErrValidation)
	}

	end := h.now().Truncate(24 * time.Hour)
	if q.EndDate != "" {
		end, _ = time.Parse(dateLayout, q.EndDate)
	}
	start := end.AddDate(0, 0, -defaultDays)
	if q.StartDate != "" {
		start, _ = time.Parse(dateLayout, q.StartDate)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date after end_date", httpx.ErrValidation)
	}
	return start, end, nil
}

func (h *Handler) handleSales(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.parseRange(r, defaultSalesWindowDays)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	groupBy := analytics.ParseGranularity(r.URL.Query().Get("group_by"))

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.SalesReport(ctx, analytics.SalesFilter{Start: start, End: end, GroupBy: groupBy})
	h.metrics.ObserveReport("sales", err)
	if err != nil {
		h.respondServerError(w, "sales analytics", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleInventory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.InventoryReport(ctx)
	h.metrics.ObserveReport("inventory", err)
	if err != nil {
		h.respondServerError(w, "inventory analytics", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleFinancial(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.parseRange(r, defaultFinancialWindowDays)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.FinancialReport(ctx, analytics.FinancialFilter{Start: start, End: end})
	h.metrics.ObserveReport("financial", err)
	if err != nil {
		h.respondServerError(w, "financial analytics", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// respondServerError logs the failure and returns a uniform problem
// response. No partial report is ever sent on failure.
func (h *Handler) respondServerError(w http.ResponseWriter, operation string, err error) {
	if h.logger != nil {
		h.logger.Error(operation, slog.Any("error", err))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		httpx.Problem(w, http.StatusGatewayTimeout, "Store Timeout", operation+" timed out")
		return
	}
	httpx.Problem(w, http.StatusInternalServerError, "Analytics Generation Failed", operation+" failed")
}
