package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scorepad-app/scorepad/app/modules/ledger"
	"github.com/scorepad-app/scorepad/internal/metrics"
)

// Reader is the read-only slice of the ledger service the exporters need.
type Reader interface {
	Read(fn func(*ledger.Ledger))
}

// Handlers serves the downloadable artifacts. An export failure aborts the
// request without touching ledger state.
type Handlers struct {
	reader  Reader
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewHandlers(reader Reader, logger *slog.Logger, m *metrics.Metrics) *Handlers {
	return &Handlers{reader: reader, logger: logger, metrics: m, now: time.Now}
}

// Routes wires the export endpoints onto a fresh router.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/xlsx", h.GetWorkbook)
	r.Get("/chart", h.GetChart)
	r.Get("/report", h.GetReport)
	return r
}

// GetWorkbook streams the ranked sheet as an XLSX download.
func (h *Handlers) GetWorkbook(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	var (
		data  []byte
		title string
		err   error
	)
	h.reader.Read(func(l *ledger.Ledger) {
		title = l.Title()
		data, err = BuildWorkbook(l)
	})
	if err != nil {
		h.logger.Error("Failed to build workbook", slog.Any("error", err))
		http.Error(w, fmt.Sprintf("Failed to build workbook: %v", err), http.StatusInternalServerError)
		return
	}
	h.metrics.ExportDuration.WithLabelValues("xlsx").Observe(h.now().Sub(start).Seconds())

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", WorkbookFilename(title, h.now())))
	_, _ = w.Write(data)
}

// GetChart streams the cumulative progression chart as a PNG.
func (h *Handlers) GetChart(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	var (
		data []byte
		err  error
	)
	h.reader.Read(func(l *ledger.Ledger) {
		data, err = RenderProgressionChart(l)
	})
	if err != nil {
		h.logger.Error("Failed to render chart", slog.Any("error", err))
		http.Error(w, fmt.Sprintf("Failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}
	h.metrics.ExportDuration.WithLabelValues("chart").Observe(h.now().Sub(start).Seconds())

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ChartFilename(h.now())))
	_, _ = w.Write(data)
}

// GetReport returns the stats document data (ranked rows, averages,
// percentages, chart bounds) as JSON for the document renderer.
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	var report Report
	h.reader.Read(func(l *ledger.Ledger) {
		report = BuildReport(l, h.now())
	})
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode report: %v", err), http.StatusInternalServerError)
	}
}
