package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ceirr/sample-dashboard/internal/datanorm"
	"github.com/ceirr/sample-dashboard/internal/gate"
	"github.com/ceirr/sample-dashboard/internal/pipeline"
	"github.com/ceirr/sample-dashboard/internal/pkg/httputil"
	"github.com/ceirr/sample-dashboard/internal/pkg/logger"
	"github.com/ceirr/sample-dashboard/internal/source"
)

// User-facing failure messages. Details stay in the logs.
const (
	msgFetchFailed     = "Could not load the sample collection sheet. Please try again later."
	msgStructureFailed = "The sample collection sheet does not have the expected columns."
	msgInternal        = "Something went wrong while preparing today's report."
)

// Runner executes one pipeline pass for a date.
type Runner interface {
	Run(ctx context.Context, now time.Time) (*pipeline.Result, error)
}

// Handlers contains the dashboard HTTP handlers
type Handlers struct {
	runner Runner
	gate   *gate.Gate
	pages  *PageRenderer
	now    func() time.Time
}

// NewHandlers creates a new Handlers instance
func NewHandlers(runner Runner, g *gate.Gate, pages *PageRenderer) *Handlers {
	return &Handlers{
		runner: runner,
		gate:   g,
		pages:  pages,
		now:    time.Now,
	}
}

// SetClock overrides the time source. Used by tests.
func (h *Handlers) SetClock(now func() time.Time) {
	h.now = now
}

// HandleIndex shows the password form.
//
//	GET /
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, http.StatusOK, pageData{})
}

// HandleReport checks the secret, runs the pipeline and renders the table.
//
//	POST /
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	password := gate.FromRequest(r)
	if err := h.gate.Check(password); err != nil {
		h.pages.Render(w, http.StatusUnauthorized, pageData{Warning: gate.DeniedMessage})
		return
	}

	res, err := h.runner.Run(r.Context(), h.now())
	if err != nil {
		status, msg := classifyError(err)
		h.pages.Render(w, status, pageData{Password: password, Failure: msg})
		return
	}

	data := pageData{
		Password:   password,
		ShowReport: true,
		Columns:    datanorm.ReportColumns,
	}
	if res.Empty() {
		data.Notice = pipeline.EmptyNotice
	} else {
		data.Rows = make([][]string, len(res.Rows))
		for i, row := range res.Rows {
			data.Rows[i] = row.Values()
		}
		data.Filename = res.Artifact.Filename
	}
	h.pages.Render(w, http.StatusOK, data)
}

// HandleExport checks the secret, runs the pipeline and returns the workbook.
//
//	POST /export
//	GET  /api/report/export
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Check(gate.FromRequest(r)); err != nil {
		httputil.Unauthorized(w, gate.DeniedMessage)
		return
	}

	res, err := h.runner.Run(r.Context(), h.now())
	if err != nil {
		status, msg := classifyError(err)
		httputil.Failure(w, status, msg, fmt.Errorf("export %s: %w", requestID(r), err))
		return
	}
	if res.Artifact == nil {
		httputil.NotFound(w, pipeline.EmptyNotice)
		return
	}

	logger.Info("api: export served", "run_id", res.RunID, "filename", res.Artifact.Filename, "rows", len(res.Rows))
	httputil.Attachment(w, res.Artifact.Filename, res.Artifact.ContentType, res.Artifact.Data)
}

// ReportResponse is the JSON form of the day's report.
type ReportResponse struct {
	RunID       string               `json:"run_id"`
	Date        string               `json:"date"`
	Columns     []string             `json:"columns"`
	Rows        []datanorm.ReportRow `json:"rows"`
	Notice      string               `json:"notice,omitempty"`
	DownloadURL string               `json:"download_url,omitempty"`
}

// HandleReportJSON returns the day's rows as JSON. The gate middleware has
// already checked the secret.
//
//	GET /api/report
func (h *Handlers) HandleReportJSON(w http.ResponseWriter, r *http.Request) {
	res, err := h.runner.Run(r.Context(), h.now())
	if err != nil {
		status, msg := classifyError(err)
		httputil.Failure(w, status, msg, fmt.Errorf("report %s: %w", requestID(r), err))
		return
	}

	resp := ReportResponse{
		RunID:   res.RunID,
		Date:    res.GeneratedAt.Format("2006-01-02"),
		Columns: datanorm.ReportColumns,
		Rows:    res.Rows,
	}
	if res.Empty() {
		resp.Rows = []datanorm.ReportRow{}
		resp.Notice = pipeline.EmptyNotice
	} else {
		resp.DownloadURL = "/api/report/export"
	}
	httputil.OK(w, resp)
}

// classifyError maps a pipeline failure to a status and a safe message.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, source.ErrFetch), errors.Is(err, source.ErrEmptySource):
		return http.StatusBadGateway, msgFetchFailed
	case errors.Is(err, datanorm.ErrMissingColumns):
		return http.StatusInternalServerError, msgStructureFailed
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
