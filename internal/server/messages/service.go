// Package messages contains the channel-message domain: the Message model,
// the message store Repository, and the Service running ingestion.
package messages

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"telefeed/internal/common"
	"telefeed/internal/logging"
	"telefeed/internal/server/telegram"
)

// UpdatesFetcher is the slice of the Telegram client the service needs.
type UpdatesFetcher interface {
	GetUpdates(ctx context.Context) ([]telegram.Update, error)
}

// IDGenerator produces external ids for manually created messages.
// Implemented by snowflake.Node.
type IDGenerator interface {
	Generate() int64
}

// Stats describes the outcome of ingestion runs. Ingestion never fails its
// caller, so this is the only place failures become visible.
type Stats struct {
	LastRun   time.Time `json:"lastRun"`
	LastError string    `json:"lastError,omitempty"`
	Ingested  int64     `json:"ingested"`
}

type Service struct {
	repo    Repository
	fetcher UpdatesFetcher
	idgen   IDGenerator
	channel string
	logger  logging.Logger

	mu    sync.Mutex
	stats Stats
}

func NewService(repo Repository, fetcher UpdatesFetcher, idgen IDGenerator, channel string, logger logging.Logger) *Service {
	return &Service{
		repo:    repo,
		fetcher: fetcher,
		idgen:   idgen,
		channel: channel,
		logger:  logger.With("module", "messages"),
	}
}

// ListChannelMessages returns the configured channel's messages, newest
// message date first.
func (s *Service) ListChannelMessages(ctx context.Context) ([]*Message, error) {
	return s.repo.ListByChannel(ctx, s.channel)
}

// FetchAndSave polls getUpdates and persists every channel post not seen
// before. Upstream or per-post failures are logged and recorded in Stats,
// never returned: a failed cycle just means no new data. Overlapping runs
// are safe because the store's unique index on the external message id is
// the dedup arbiter.
func (s *Service) FetchAndSave(ctx context.Context) {
	updates, err := s.fetcher.GetUpdates(ctx)
	if err != nil {
		s.logger.Error(ctx, "fetching updates failed", "error", err.Error())
		s.recordRun(0, err)
		return
	}

	var ingested int64
	for _, update := range updates {
		if update.ChannelPost == nil {
			continue
		}
		if s.savePost(ctx, update.ChannelPost) {
			ingested++
		}
	}

	s.logger.Info(ctx, "ingestion cycle finished", "updates", len(updates), "ingested", ingested)
	s.recordRun(ingested, nil)
}

// savePost persists a single channel post, reporting whether a new message
// was stored. A post that fails to save must not abort the batch.
func (s *Service) savePost(ctx context.Context, post *telegram.Post) bool {
	exists, err := s.repo.ExistsByMessageID(ctx, post.MessageID)
	if err != nil {
		s.logger.Error(ctx, "checking message failed", "message_id", post.MessageID, "error", err.Error())
		return false
	}
	if exists {
		return false
	}

	msg := &Message{
		MessageID:       post.MessageID,
		Text:            post.Text,
		ChannelUsername: s.channel,
		MessageDate:     time.Unix(post.Date, 0),
	}

	if _, err := s.repo.Create(ctx, msg); err != nil {
		if errors.Is(err, common.ErrMessageExists) {
			// lost the race against an overlapping run, already stored
			return false
		}
		s.logger.Error(ctx, "saving message failed", "message_id", post.MessageID, "error", err.Error())
		return false
	}

	s.logger.Info(ctx, "message saved", "message_id", post.MessageID)
	return true
}

// CreateManual stores a message entered by hand. The external id comes from
// the id generator, so two manual messages created within the same second
// never collide.
func (s *Service) CreateManual(ctx context.Context, text string) (*Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.ErrBlankText
	}

	now := time.Now()
	msg := &Message{
		MessageID:       s.idgen.Generate(),
		Text:            text,
		ChannelUsername: s.channel,
		MessageDate:     now,
	}

	return s.repo.Create(ctx, msg)
}

// Stats returns a snapshot of the ingestion counters.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Service) recordRun(ingested int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.LastRun = time.Now()
	s.stats.Ingested += ingested
	if err != nil {
		s.stats.LastError = err.Error()
	} else {
		s.stats.LastError = ""
	}
}
