package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/expense-tracker/internal/api/handlers"
	"github.com/dvloznov/expense-tracker/internal/api/middleware"
	"github.com/dvloznov/expense-tracker/internal/category"
	"github.com/dvloznov/expense-tracker/internal/classifier"
	"github.com/dvloznov/expense-tracker/internal/config"
	"github.com/dvloznov/expense-tracker/internal/gmail"
	"github.com/dvloznov/expense-tracker/internal/jobs"
	"github.com/dvloznov/expense-tracker/internal/jobs/inmemory"
	"github.com/dvloznov/expense-tracker/internal/logger"
	"github.com/dvloznov/expense-tracker/internal/pipeline"
	"github.com/dvloznov/expense-tracker/internal/sheets"
)

func main() {
	// Parse command-line flags
	port := flag.String("port", "8080", "HTTP server port")
	flag.Parse()

	// Initialize logger
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	dictionary, err := config.LoadMerchantDictionary(cfg.DictionaryFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load merchant dictionary")
	}

	ctx := context.Background()

	// The Sheets table is shared between sync runs and the read API.
	table, err := sheets.NewTable(ctx, cfg.SpreadsheetID, cfg.SheetName, cfg.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Sheets table")
	}

	resolver := category.NewResolver(dictionary, classifier.NewGemini(cfg.GeminiModel))

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	// Start worker in background to process jobs
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	// Create job handler for processing sync runs. Each run builds its own
	// Gmail source so per-job query and max_results overrides take effect.
	jobHandler := func(ctx context.Context, job jobs.Job) error {
		syncJob, ok := job.(*jobs.SyncRunJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		query := cfg.GmailQuery
		if syncJob.Query != "" {
			query = syncJob.Query
		}
		maxResults := cfg.MaxResults
		if syncJob.MaxResults > 0 {
			maxResults = syncJob.MaxResults
		}

		log.Info().
			Str("job_id", syncJob.JobID).
			Str("query", query).
			Int64("max_results", maxResults).
			Msg("Processing sync run")

		ctx = logger.WithContext(ctx, log)

		source, err := gmail.NewSource(ctx, cfg.CredentialsFile, query, maxResults)
		if err != nil {
			return fmt.Errorf("create Gmail source: %w", err)
		}

		assembler := pipeline.NewAssembler(resolver)
		appender := pipeline.NewAppender(table)

		result, err := pipeline.Run(ctx, source, assembler, appender)
		syncJob.Fetched = result.Fetched
		syncJob.Appended = len(result.Appended)
		syncJob.Skipped = len(result.Skipped)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", syncJob.JobID).
				Msg("Sync run failed")
			return err
		}

		log.Info().
			Str("job_id", syncJob.JobID).
			Int("fetched", result.Fetched).
			Int("appended", len(result.Appended)).
			Int("skipped", len(result.Skipped)).
			Msg("Sync run completed")

		return nil
	}

	// Start job consumer in background
	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	// Initialize handlers
	syncHandler := handlers.NewSyncHandler(jobQueue, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)
	transactionsHandler := handlers.NewTransactionsHandler(table, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/sync", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			syncHandler.EnqueueSync(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			// Extract job ID from path
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.ListTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Cancel worker context
	cancelWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Job queue shutdown failed")
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
