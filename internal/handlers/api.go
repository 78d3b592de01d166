package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AdeyaOduor/chart-js/internal/config"
	apperrors "github.com/AdeyaOduor/chart-js/internal/errors"
	"github.com/AdeyaOduor/chart-js/internal/ingest"
	"github.com/AdeyaOduor/chart-js/internal/observability"
	"github.com/AdeyaOduor/chart-js/internal/services"
)

const cacheMaxAge = "public, max-age=300"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
	upload    config.UploadConfig
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger, upload config.UploadConfig) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
		upload:    upload,
	}
}

// HandleUpload accepts a multipart CSV or XLSX file under the "file" field,
// runs the analytics pipeline over it, and responds with the full result.
// Rows that fail normalization come back as warnings; a batch with no
// surviving rows is rejected with EMPTY_INPUT.
func (h *APIHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.upload.MaxSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequestWrap(err, "Missing or oversized upload; send the file in the \"file\" field"), requestID)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(h.upload.AllowedExtensions, ext) {
		apperrors.WriteError(w, h.logger, apperrors.BadRequest(fmt.Sprintf("File type %q is not allowed; accepted: %s", ext, strings.Join(h.upload.AllowedExtensions, ", "))), requestID)
		return
	}

	rows, err := ingest.Read(header.Filename, file)
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedFormat) {
			apperrors.WriteError(w, h.logger, apperrors.BadRequest("Unsupported file format; upload .csv or .xlsx"), requestID)
			return
		}
		apperrors.WriteError(w, h.logger, apperrors.BadRequestWrap(err, "Could not read uploaded file"), requestID)
		return
	}

	batchID := uuid.NewString()
	h.logger.Info("upload received",
		"batch_id", batchID,
		"filename", header.Filename,
		"size", header.Size,
		"rows", len(rows),
		"request_id", requestID,
	)

	result, err := h.analytics.ProcessRows(r.Context(), batchID, rows)
	if err != nil {
		apperrors.WriteError(w, h.logger, err, requestID)
		return
	}

	apperrors.WriteSuccess(w, result)
}

// HandleAnalytics returns the full current result snapshot.
func (h *APIHandlers) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccess(w, h.analytics.Snapshot())
}

func (h *APIHandlers) HandleDailyStats(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccessWithHeaders(w, h.analytics.DailyStats(), map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccessWithHeaders(w, h.analytics.TopProducts(), map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleMovingAverage(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccessWithHeaders(w, h.analytics.MovingAverage(), map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccess(w, h.analytics.Stats())
}
