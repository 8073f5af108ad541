package httpadapter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

const (
	// Two uploads at the size ceiling plus multipart framing.
	maxRequestBytes   = 2*domain.MaxUploadBytes + 1<<20
	multipartMemory   = 32 << 20
	msgNoFile         = "No file provided"
	msgNoOperatorFile = "Operator contract file is required"
	msgNoBookingFile  = "ACS booking form file is required"
	msgFileTooLarge   = "File size must be less than 10MB."

	modeAnalysis   = "analysis"
	modeComparison = "comparison"
)

var errMissingUpload = errors.New("missing upload")

func (rt *Router) analyzeContract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := parseUploadForm(w, r); err != nil {
		rt.rejectUpload(w, r, modeAnalysis, start, err, msgNoFile)
		return
	}
	doc, err := readUpload(r, "file")
	if err != nil {
		rt.rejectUpload(w, r, modeAnalysis, start, err, msgNoFile)
		return
	}

	result, err := rt.deps.Analyzer.Analyze(r.Context(), doc)
	if err != nil {
		rt.failAnalysis(w, r, modeAnalysis, start, err, msgAnalyzeFailed)
		return
	}
	rt.observeAnalysis(modeAnalysis, "success", start)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) compareContracts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := parseUploadForm(w, r); err != nil {
		rt.rejectUpload(w, r, modeComparison, start, err, msgNoOperatorFile)
		return
	}
	operator, err := readUpload(r, "operatorContract")
	if err != nil {
		rt.rejectUpload(w, r, modeComparison, start, err, msgNoOperatorFile)
		return
	}
	booking, err := readUpload(r, "bookingForm")
	if err != nil {
		rt.rejectUpload(w, r, modeComparison, start, err, msgNoBookingFile)
		return
	}

	result, err := rt.deps.Comparer.Compare(r.Context(), operator, booking)
	if err != nil {
		rt.failAnalysis(w, r, modeComparison, start, err, msgCompareFailed)
		return
	}
	rt.observeAnalysis(modeComparison, "success", start)
	writeJSON(w, http.StatusOK, result)
}

// rejectUpload answers multipart problems before any use case runs.
func (rt *Router) rejectUpload(w http.ResponseWriter, r *http.Request, mode string, start time.Time, err error, missingMessage string) {
	message := missingMessage
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		message = msgFileTooLarge
	}
	slog.WarnContext(r.Context(), "upload_rejected",
		"request_id", requestIDFromContext(r.Context()),
		"mode", mode,
		"error", err,
	)
	rt.observeAnalysis(mode, "invalid_input", start)
	writeError(w, http.StatusBadRequest, message)
}

func (rt *Router) failAnalysis(w http.ResponseWriter, r *http.Request, mode string, start time.Time, err error, fallback string) {
	status, message, label := mapError(err, fallback)
	attrs := []any{
		"request_id", requestIDFromContext(r.Context()),
		"mode", mode,
		"kind", label,
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "analysis_failed", attrs...)
	} else {
		slog.WarnContext(r.Context(), "analysis_failed", attrs...)
	}
	rt.observeAnalysis(mode, label, start)
	writeError(w, status, message)
}

func parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return fmt.Errorf("parse multipart form: %w", err)
	}
	return nil
}

// readUpload reads one multipart file field. Size is the declared part size;
// at most MaxUploadBytes+1 bytes are buffered so oversized parts are still
// rejected by the size gate.
func readUpload(r *http.Request, field string) (domain.UploadedDocument, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return domain.UploadedDocument{}, fmt.Errorf("%w %q: %w", errMissingUpload, field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, domain.MaxUploadBytes+1))
	if err != nil {
		return domain.UploadedDocument{}, fmt.Errorf("read upload %q: %w", field, err)
	}
	size := header.Size
	if size < int64(len(data)) {
		size = int64(len(data))
	}
	return domain.UploadedDocument{
		Filename: header.Filename,
		MimeType: domain.ResolveMimeType(header.Header.Get("Content-Type"), header.Filename),
		Size:     size,
		Data:     data,
	}, nil
}
