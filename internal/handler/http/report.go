package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-transparency/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const maxRequestBody = 1 << 20

type ReportHandler interface {
	// DownloadPayrollReport answers with the xlsx report of one employee and date range
	DownloadPayrollReport(w http.ResponseWriter, r *http.Request)

	// GetPayrollReport answers with the same report as JSON
	GetPayrollReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService payroll.ReportService
	logger        *slog.Logger
}

func NewReportHandler(reportService payroll.ReportService, logger *slog.Logger) ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportHandlerImpl{reportService: reportService, logger: logger}
}

func (h *reportHandlerImpl) DownloadPayrollReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := payroll.ReportRequest{
		EmployeeID: q.Get("matricula"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
	}

	// Query parameters win; the JSON body only fills what the query left out.
	if req.Missing() {
		if err := mergeBody(r, &req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	file, err := h.reportService.ExportReport(r.Context(), req)
	if err != nil {
		h.logFailure(r, req, err)
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.FileName, file.ContentType, file.Content)
}

func (h *reportHandlerImpl) GetPayrollReport(w http.ResponseWriter, r *http.Request) {
	req := payroll.ReportRequest{
		EmployeeID: chi.URLParam(r, "matricula"),
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
	}

	report, err := h.reportService.BuildReport(r.Context(), req)
	if err != nil {
		h.logFailure(r, req, err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}

func (h *reportHandlerImpl) logFailure(r *http.Request, req payroll.ReportRequest, err error) {
	if errors.Is(err, payroll.ErrNoData) {
		return
	}
	h.logger.ErrorContext(r.Context(), "payroll report failed",
		"matricula", req.EmployeeID,
		"start_date", req.StartDate,
		"end_date", req.EndDate,
		"error", err,
	)
}

func mergeBody(r *http.Request, req *payroll.ReportRequest) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	var body payroll.ReportRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	if req.EmployeeID == "" {
		req.EmployeeID = body.EmployeeID
	}
	if req.StartDate == "" {
		req.StartDate = body.StartDate
	}
	if req.EndDate == "" {
		req.EndDate = body.EndDate
	}
	return nil
}
