package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobs-analytics/constants"
	"jobs-analytics/internal/analytics"
	"jobs-analytics/internal/common"
	"jobs-analytics/internal/entity"
	"jobs-analytics/internal/export"
	"jobs-analytics/internal/history"
	"jobs-analytics/internal/ingest"
)

// AnalyticsService wires the pipeline behind the HTTP surface.
type AnalyticsService struct {
	cfg     *common.Config
	ingest  *ingest.Service
	export  *export.Service
	history *history.Log // nil when persistence is disabled
	state   *ReportState
	logger  *zap.Logger
}

func NewAnalyticsService(cfg *common.Config, ing *ingest.Service, exp *export.Service, hist *history.Log, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		cfg:     cfg,
		ingest:  ing,
		export:  exp,
		history: hist,
		state:   NewReportState(),
		logger:  logger,
	}
}

type uploadResponse struct {
	RunID       string        `json:"run_id"`
	Files       int           `json:"files"`
	RowsKept    int           `json:"rows_kept"`
	RowsDropped int           `json:"rows_dropped"`
	Report      entity.Report `json:"report"`
}

// Upload accepts one or more CSV/XLSX files, runs the pipeline and stores
// the result as the session's last report.
func (s *AnalyticsService) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(s.cfg.Ingest.MaxUploadBytes); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}
	fileHeaders := c.Request.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		respondError(c, http.StatusBadRequest, "no_files", nil)
		return
	}

	payloads := make([]ingest.Payload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if !constants.IsAllowedExt(filepath.Ext(fh.Filename)) {
			respondError(c, http.StatusBadRequest, "unsupported_file_type", nil)
			return
		}
		f, err := fh.Open()
		if err != nil {
			s.logger.Warn("cannot open uploaded file", zap.String("file", fh.Filename), zap.Error(err))
			respondError(c, http.StatusBadRequest, "unreadable_file", err)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			respondError(c, http.StatusBadRequest, "unreadable_file", err)
			return
		}
		payloads = append(payloads, ingest.Payload{Filename: fh.Filename, Data: data})
	}

	dataset, stats, err := s.ingest.ParsePayloads(c.Request.Context(), payloads)
	if err != nil {
		if errors.Is(err, common.ErrSchema) {
			respondError(c, http.StatusUnprocessableEntity, "schema_error", err)
			return
		}
		respondError(c, http.StatusBadRequest, "ingest_failed", err)
		return
	}

	report := analytics.Aggregate(dataset)
	runID := uuid.NewString()
	s.state.Set(report, runID)

	if s.history != nil {
		if _, err := s.history.Append(c.Request.Context(), report); err != nil {
			// The run itself succeeded; persistence is a collaborator.
			s.logger.Warn("history append failed", zap.Error(err))
		}
	}

	s.logger.Info("upload processed",
		zap.String("run_id", runID),
		zap.Int("files", stats.Files),
		zap.Int("rows_kept", stats.RowsKept),
		zap.Int("months", len(report.MonthlyBreakdown)))

	c.JSON(http.StatusOK, uploadResponse{
		RunID:       runID,
		Files:       stats.Files,
		RowsKept:    stats.RowsKept,
		RowsDropped: stats.RowsDropped,
		Report:      report,
	})
}

// lastReport resolves the freshest report: the in-session one, else the
// persisted history document. Returns common.ErrNotFound when neither exists.
func (s *AnalyticsService) lastReport(c *gin.Context) (entity.Report, error) {
	if r, _, ok := s.state.Get(); ok {
		return r, nil
	}
	if s.history != nil {
		stored, err := s.history.Load(c.Request.Context())
		if err != nil {
			s.logger.Warn("history load failed", zap.Error(err))
		} else if stored != nil {
			return entity.Report{
				MonthlyBreakdown: stored.MonthlyBreakdown,
				LTVMetrics:       stored.LTV,
			}, nil
		}
	}
	return entity.Report{}, common.ErrNotFound
}

// GetReport returns the full last report.
func (s *AnalyticsService) GetReport(c *gin.Context) {
	r, err := s.lastReport(c)
	if errors.Is(err, common.ErrNotFound) {
		respondError(c, http.StatusNotFound, "no_report", nil)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetMonthlyBreakdown returns just the monthly cohort sequence.
func (s *AnalyticsService) GetMonthlyBreakdown(c *gin.Context) {
	r, err := s.lastReport(c)
	if errors.Is(err, common.ErrNotFound) {
		respondError(c, http.StatusNotFound, "no_report", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"monthly_breakdown": r.MonthlyBreakdown})
}

// GetLTV returns just the LTV metrics.
func (s *AnalyticsService) GetLTV(c *gin.Context) {
	r, err := s.lastReport(c)
	if errors.Is(err, common.ErrNotFound) {
		respondError(c, http.StatusNotFound, "no_report", nil)
		return
	}
	c.JSON(http.StatusOK, r.LTVMetrics)
}

// ExportReport streams the last report as an XLSX attachment.
func (s *AnalyticsService) ExportReport(c *gin.Context) {
	r, err := s.lastReport(c)
	if errors.Is(err, common.ErrNotFound) {
		respondError(c, http.StatusNotFound, "no_report", nil)
		return
	}
	b, err := s.export.ReportXLSX(c.Request.Context(), r)
	if err != nil {
		s.logger.Warn("export failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="monthly_breakdown.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
}

// Health reports liveness.
func (s *AnalyticsService) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func respondError(c *gin.Context, status int, code string, err error) {
	body := gin.H{"error": code}
	if err != nil {
		body["detail"] = err.Error()
	}
	c.JSON(status, body)
}
