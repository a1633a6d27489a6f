package leaderboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/popcatch/internal/loop/config"
)

// Service records scores and serves the ranked board. Writes are
// serialized so concurrent players do not lose each other's entries.
type Service struct {
	store    Store
	logger   *log.Logger
	now      func() time.Time
	capacity int
	display  int

	mu      sync.Mutex
	version uint64 // Bumped on every successful save
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLimits overrides how many entries are kept and displayed.
func WithLimits(capacity, display int) Option {
	return func(s *Service) {
		s.capacity = capacity
		s.display = display
	}
}

// NewService creates a service over store. A nil logger uses the default
// charmbracelet logger.
func NewService(store Store, logger *log.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = log.Default()
	}
	s := &Service{
		store:    store,
		logger:   logger.WithPrefix("leaderboard"),
		now:      time.Now,
		capacity: config.LeaderboardStored,
		display:  config.LeaderboardDisplayed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save records a finished game and returns the stored entry.
func (s *Service) Save(ctx context.Context, name string, score int) (Entry, error) {
	entry := Entry{
		Name:      SanitizeName(name),
		Score:     score,
		Timestamp: s.now().UnixMilli(),
	}
	if score < 0 {
		return entry, fmt.Errorf("%w: negative score %d", ErrInvalidScore, score)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("load before save failed", "err", err)
		return entry, err
	}
	doc.Scores = Append(doc.Scores, entry, s.capacity)
	if err := s.store.Save(ctx, doc); err != nil {
		s.logger.Error("save failed", "name", entry.DisplayName(), "score", score, "err", err)
		return entry, err
	}
	s.version++

	s.logger.Info("score saved", "name", entry.DisplayName(), "score", score, "stored", len(doc.Scores))
	return entry, nil
}

// Top returns the best entries, ranked.
func (s *Service) Top(ctx context.Context) ([]Entry, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("load failed", "err", err)
		return nil, err
	}
	return Top(doc.Scores, s.display), nil
}

// Version returns a counter that changes whenever this service saved a score.
func (s *Service) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
