// Package handlers implements the HTTP endpoints: trigger a sync run, inspect
// jobs, and list persisted transactions. The pipeline itself carries no HTTP
// surface; everything here is plumbing around it.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dvloznov/expense-tracker/internal/api/middleware"
	"github.com/dvloznov/expense-tracker/internal/domain"
	"github.com/dvloznov/expense-tracker/internal/jobs"
)

// SyncHandler enqueues sync runs.
type SyncHandler struct {
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(publisher jobs.Publisher, log zerolog.Logger) *SyncHandler {
	return &SyncHandler{publisher: publisher, log: log}
}

// EnqueueSync handles POST /api/sync. Body fields are optional; empty values
// fall back to the configured defaults.
func (h *SyncHandler) EnqueueSync(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query      string `json:"query"`
		MaxResults int64  `json:"max_results"`
	}

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.MaxResults < 0 {
		middleware.WriteError(w, http.StatusBadRequest, "max_results must not be negative")
		return
	}

	job := &jobs.SyncRunJob{
		Query:      req.Query,
		MaxResults: req.MaxResults,
	}

	if err := h.publisher.PublishSyncRun(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue sync run")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue sync run")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("query", job.Query).Msg("Sync run enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// JobsHandler exposes job state.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// ListJobs handles GET /api/jobs. Supports status, limit and offset query
// parameters.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter := jobs.JobFilter{
		Status: jobs.JobStatus(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		filter.Offset = n
	}

	list, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}

// GetJob handles GET /api/jobs/{id}.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// TransactionReader reads persisted rows back from the destination table.
type TransactionReader interface {
	Rows(ctx context.Context) ([][]string, error)
}

// TransactionsHandler lists persisted transactions.
type TransactionsHandler struct {
	reader TransactionReader
	log    zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(reader TransactionReader, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{reader: reader, log: log}
}

// ListTransactions handles GET /api/transactions, mapping sheet rows to JSON
// objects keyed by the header column names.
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reader.Rows(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read transactions")
		return
	}

	list := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		item := make(map[string]string, len(domain.Header))
		for i, col := range domain.Header {
			if i < len(row) {
				item[col] = row[i]
			} else {
				item[col] = ""
			}
		}
		list = append(list, item)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": list,
		"count":        len(list),
	})
}
