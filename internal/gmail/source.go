// Package gmail implements the message source on top of the Gmail API. It
// yields opaque snippet blobs with ids and timestamps; all parsing happens
// downstream.
package gmail

import (
	"context"
	"fmt"

	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/dvloznov/expense-tracker/internal/logger"
	"github.com/dvloznov/expense-tracker/internal/pipeline"
)

const (
	// DefaultQuery matches the transaction-notification emails this pipeline
	// was built for.
	DefaultQuery = "transaction"

	// DefaultMaxResults bounds one run's batch size.
	DefaultMaxResults = 100
)

// Source is a pipeline.MessageSource reading one user's mailbox.
type Source struct {
	svc        *gmailapi.Service
	query      string
	maxResults int64
}

// NewSource creates a source for the authenticated user's mailbox.
// credentialsFile may be empty to use Application Default Credentials.
func NewSource(ctx context.Context, credentialsFile, query string, maxResults int64) (*Source, error) {
	if query == "" {
		query = DefaultQuery
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	opts := []option.ClientOption{option.WithScopes(gmailapi.GmailReadonlyScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gmail: create service: %w", err)
	}

	return &Source{svc: svc, query: query, maxResults: maxResults}, nil
}

// FetchMessages lists messages matching the query and fetches each one's
// snippet and internal timestamp. A message without an internal timestamp
// yields epoch zero rather than failing the batch; a best-effort record beats
// a dropped one.
func (s *Source) FetchMessages(ctx context.Context) ([]pipeline.Message, error) {
	log := logger.FromContext(ctx)

	listed, err := s.svc.Users.Messages.List("me").
		Q(s.query).
		MaxResults(s.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("gmail: list messages: %w", err)
	}

	messages := make([]pipeline.Message, 0, len(listed.Messages))
	for _, ref := range listed.Messages {
		msg, err := s.svc.Users.Messages.Get("me", ref.Id).
			Format("minimal").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("gmail: get message %s: %w", ref.Id, err)
		}

		if msg.InternalDate == 0 {
			log.Warn().Str("message_id", msg.Id).Msg("Message has no internal timestamp, using epoch zero")
		}

		messages = append(messages, pipeline.Message{
			ID:              msg.Id,
			Snippet:         msg.Snippet,
			TimestampMillis: msg.InternalDate,
		})
	}

	return messages, nil
}

var _ pipeline.MessageSource = (*Source)(nil)
