// Package pipeline orchestrates one batch run: fetch notification messages,
// assemble transaction records, and append the non-duplicate ones to the
// destination table. The run is single-threaded and synchronous; the only
// blocking operations are the calls into the injected collaborators.
package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/expense-tracker/internal/domain"
	"github.com/dvloznov/expense-tracker/internal/logger"
)

// Step is a single stage of a run operating on shared State.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the data flowing between steps of one run.
type State struct {
	Messages []Message
	Records  []RecordWithSource
	Result   RunResult
}

// RecordWithSource pairs an assembled record with the message it came from,
// kept for per-item audit logging.
type RecordWithSource struct {
	MessageID string
	Record    domain.TransactionRecord
}

// FetchMessagesStep pulls the batch of messages from the source.
type FetchMessagesStep struct {
	Source MessageSource
}

func (s *FetchMessagesStep) Execute(ctx context.Context, state *State) error {
	msgs, err := s.Source.FetchMessages(ctx)
	if err != nil {
		return fmt.Errorf("fetch messages: %w", err)
	}
	state.Messages = msgs
	state.Result.Fetched = len(msgs)
	log := logger.FromContext(ctx)
	log.Info().Int("count", len(msgs)).Msg("Fetched messages")
	return nil
}

// AssembleRecordsStep turns every message into a finalized record.
type AssembleRecordsStep struct {
	Assembler *Assembler
}

func (s *AssembleRecordsStep) Execute(ctx context.Context, state *State) error {
	records := make([]RecordWithSource, 0, len(state.Messages))
	for _, msg := range state.Messages {
		rec, err := s.Assembler.Assemble(ctx, msg)
		if err != nil {
			return fmt.Errorf("assemble message %s: %w", msg.ID, err)
		}
		records = append(records, RecordWithSource{MessageID: msg.ID, Record: rec})
	}
	state.Records = records
	return nil
}

// AppendTransactionsStep runs the dedup appender over the assembled records.
type AppendTransactionsStep struct {
	Appender *Appender
}

func (s *AppendTransactionsStep) Execute(ctx context.Context, state *State) error {
	records := make([]domain.TransactionRecord, 0, len(state.Records))
	for _, r := range state.Records {
		records = append(records, r.Record)
	}

	res, err := s.Appender.Run(ctx, records)
	state.Result.Appended = res.Appended
	state.Result.Skipped = res.Skipped
	state.Result.HeaderInitialized = res.HeaderInitialized
	if err != nil {
		return fmt.Errorf("append transactions: %w", err)
	}
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewSyncPipeline creates the standard three-step pipeline for one sync run.
func NewSyncPipeline(source MessageSource, assembler *Assembler, appender *Appender) *Pipeline {
	return NewPipeline(
		&FetchMessagesStep{Source: source},
		&AssembleRecordsStep{Assembler: assembler},
		&AppendTransactionsStep{Appender: appender},
	)
}

// Run is a convenience wrapper: build the standard pipeline, execute it, and
// return the per-item result. The result is meaningful even on error; rows
// appended before a failure stay appended.
func Run(ctx context.Context, source MessageSource, assembler *Assembler, appender *Appender) (RunResult, error) {
	state := &State{}
	err := NewSyncPipeline(source, assembler, appender).Execute(ctx, state)
	return state.Result, err
}
