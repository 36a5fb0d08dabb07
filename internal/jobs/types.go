// Package jobs defines the async job model for API-triggered sync runs.
package jobs

import (
	"context"
	"time"
)

// JobType represents the type of job to be executed.
type JobType string

// JobTypeSyncRun represents one full mailbox-to-sheet sync run.
const JobTypeSyncRun JobType = "sync_run"

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
	// JobStatusRetrying indicates the job failed and is being retried.
	JobStatusRetrying JobStatus = "retrying"
)

// SyncRunJob represents one sync run: fetch matching messages, assemble
// records, append non-duplicates to the sheet. Retrying a run is safe because
// dedup makes the pipeline idempotent.
type SyncRunJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// Query is the message-source search query for this run; empty means the
	// configured default.
	Query string `json:"query,omitempty"`

	// MaxResults bounds the batch size for this run; zero means the default.
	MaxResults int64 `json:"max_results,omitempty"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// Fetched, Appended and Skipped summarize the run's per-item outcome.
	Fetched  int `json:"fetched"`
	Appended int `json:"appended"`
	Skipped  int `json:"skipped"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the maximum number of retries allowed.
	MaxRetries int `json:"max_retries"`
}

// GetID implements the Job interface.
func (j *SyncRunJob) GetID() string { return j.JobID }

// GetType implements the Job interface.
func (j *SyncRunJob) GetType() JobType { return JobTypeSyncRun }

// GetStatus implements the Job interface.
func (j *SyncRunJob) GetStatus() JobStatus { return j.Status }

// Job is a generic interface for all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

// JobHandler processes one job.
type JobHandler func(ctx context.Context, job Job) error

// JobFilter narrows ListJobs results.
type JobFilter struct {
	Status JobStatus
	Limit  int
	Offset int
}

// JobStore persists job state for observability.
type JobStore interface {
	SaveJob(ctx context.Context, job *SyncRunJob) error
	GetJob(ctx context.Context, jobID string) (*SyncRunJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*SyncRunJob, error)
}

// Publisher enqueues jobs.
type Publisher interface {
	PublishSyncRun(ctx context.Context, job *SyncRunJob) error
	Close() error
}

// Consumer processes enqueued jobs.
type Consumer interface {
	Start(ctx context.Context, handler JobHandler) error
	Stop(ctx context.Context) error
}
