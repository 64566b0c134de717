package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sellerledger/reconciler/internal/domain"
	"github.com/sellerledger/reconciler/internal/ingestion"
	"github.com/sellerledger/reconciler/internal/inventory"
	"github.com/sellerledger/reconciler/internal/pipeline"
	"github.com/sellerledger/reconciler/internal/report"
	"github.com/sellerledger/reconciler/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	pipelineSvc *pipeline.Service
	store       *repository.RunStore
	maxUpload   int64
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps pipeline errors to HTTP status codes: report-shape problems
// are the client's to fix.
func statusFor(err error) int {
	var (
		headerErr *domain.HeaderNotFoundError
		columnErr *domain.MissingColumnError
		emptyErr  *domain.EmptyInputError
	)
	if errors.As(err, &headerErr) || errors.As(err, &columnErr) || errors.As(err, &emptyErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func formFileBytes(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, fmt.Errorf("%s file is required", field)
		}
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	defer file.Close()
	return io.ReadAll(file)
}

func optionalFormFileBytes(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	defer file.Close()
	return io.ReadAll(file)
}

// --- ProcessReports ---

// ProcessReports accepts the report bundle as a multipart form and runs the
// pipeline. Form fields: month, year; files: fulfillment, unified, standard,
// invoiced; optional file: template.
func (h *Handlers) ProcessReports(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	month, err := strconv.Atoi(r.FormValue("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "month is required and must be a number")
		return
	}
	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year is required and must be a number")
		return
	}

	in := pipeline.RunInput{Month: month, Year: year}
	for _, f := range []struct {
		field string
		dst   *[]byte
	}{
		{"fulfillment", &in.Fulfillment},
		{"unified", &in.Unified},
		{"standard", &in.Standard},
		{"invoiced", &in.Invoiced},
	} {
		data, err := formFileBytes(r, f.field)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		*f.dst = data
	}

	if in.Template, err = optionalFormFileBytes(r, "template"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.pipelineSvc.Run(in)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// --- GetLatestRun ---

func (h *Handlers) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.LatestRun()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "no run has completed yet")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- DownloadArtifact ---

func (h *Handlers) DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	kind := domain.ArtifactKind(chi.URLParam(r, "kind"))

	known := false
	for _, k := range domain.ArtifactKinds {
		if k == kind {
			known = true
			break
		}
	}
	if !known {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown artifact kind %q", kind))
		return
	}

	data, err := h.store.Artifact(runID, kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "artifact not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", kind.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(kind)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("[api] write artifact: %v", err)
	}
}

// --- SummarizeLedger ---

// SummarizeLedger accepts an inventory-ledger export (file field "ledger")
// and returns the per-ASIN rollup as CSV. Stateless; nothing is retained.
func (h *Handlers) SummarizeLedger(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	data, err := formFileBytes(r, "ledger")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	frame, err := ingestion.ReadDelimited(data)
	if err != nil {
		writeError(w, statusFor(err), "inventory ledger: "+err.Error())
		return
	}

	summary, err := inventory.Summarize(frame)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	out, err := report.FrameCSV(summary)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="asin_summary.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		log.Printf("[api] write ledger summary: %v", err)
	}
}

// --- Health ---

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
