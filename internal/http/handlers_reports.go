package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	applog "commissions/internal/log"
	"commissions/internal/services"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.reports.Dashboard(r.Context())
	if err != nil {
		s.writeServiceError(w, r, applog.OpRead, err)
		return
	}
	NewResponse().Data(d).Write(w)
}

// handleMonthReport serves ?month=YYYY-MM. A missing or malformed month
// reports every sale.
func (s *Server) handleMonthReport(w http.ResponseWriter, r *http.Request) {
	selector := strings.TrimSpace(r.URL.Query().Get("month"))
	report, err := s.reports.MonthReport(r.Context(), selector)
	if err != nil {
		s.writeServiceError(w, r, applog.OpRead, err)
		return
	}
	NewResponse().Data(report).Write(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	export, err := s.reports.Export(r.Context())
	if errors.Is(err, services.ErrNothingToExport) {
		BadRequestError("there are no sales to export").Write(w)
		return
	}
	if err != nil {
		s.writeServiceError(w, r, applog.OpExport, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Content); err != nil {
		s.logger.WarnContext(r.Context(), "Failed to write export", applog.FieldError, err.Error())
	}
}
