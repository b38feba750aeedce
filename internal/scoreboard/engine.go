package scoreboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"forest-quiz-hub/internal/domain"
	"github.com/google/uuid"
)

const (
	// DefaultCapacity bounds the leaderboard length.
	DefaultCapacity = 50
	// DefaultViewLimit is the page size used when a view asks for limit <= 0.
	DefaultViewLimit = 10
)

// Store abstracts where leaderboard rows live (in-memory, Redis, Postgres, SQLite).
// Load returns the records in the order they were last saved.
type Store interface {
	Load(ctx context.Context) ([]domain.AttemptRecord, error)
	Save(ctx context.Context, records []domain.AttemptRecord) error
}

// Attempt is the input to Record.
type Attempt struct {
	Identity    domain.Identity
	Outcome     domain.QuizOutcome
	DomainName  string
	TopicName   string
	CompletedAt time.Time
}

// Engine classifies scores and maintains the ordered, capacity-bounded leaderboard.
// It is not safe for concurrent Record calls; callers serialize them.
type Engine struct {
	store    Store
	capacity int
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithCapacity overrides DefaultCapacity. Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.capacity = n
		}
	}
}

// WithIDGenerator is test-only for deterministic record ids.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		capacity: DefaultCapacity,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Capacity returns the configured leaderboard bound.
func (e *Engine) Capacity() int { return e.capacity }

// Classify derives the tier: perfect is Top, at least ceil(60%) is Mid, anything else Base.
func Classify(score, total int) (domain.Tier, error) {
	if total <= 0 || score < 0 || score > total {
		return domain.TierBase, fmt.Errorf("%w: %d/%d", domain.ErrInvalidScore, score, total)
	}
	switch {
	case score == total:
		return domain.TierTop, nil
	case score >= midThreshold(total):
		return domain.TierMid, nil
	default:
		return domain.TierBase, nil
	}
}

// midThreshold is ceil(total * 0.6) in integer arithmetic.
func midThreshold(total int) int {
	return (3*total + 4) / 5
}

// Outcome classifies a score and attaches the tier glyph.
func Outcome(score, total int) (domain.QuizOutcome, error) {
	tier, err := Classify(score, total)
	if err != nil {
		return domain.QuizOutcome{}, err
	}
	return domain.QuizOutcome{
		Score:          score,
		TotalQuestions: total,
		Tier:           tier,
		Glyph:          tier.Glyph(),
	}, nil
}

// AccuracyPercent is round(100*score/total), halves rounded away from zero.
func AccuracyPercent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

// Record builds an AttemptRecord, inserts it, re-sorts the whole board and trims it to capacity.
// The returned record may already be evicted if it ranks below the cap.
func (e *Engine) Record(ctx context.Context, a Attempt) (domain.AttemptRecord, error) {
	out := a.Outcome
	if _, err := Classify(out.Score, out.TotalQuestions); err != nil {
		return domain.AttemptRecord{}, err
	}
	id := a.Identity.Normalize()
	if id.DisplayName == "" {
		return domain.AttemptRecord{}, fmt.Errorf("%w: name is required", domain.ErrMalformedIdentity)
	}

	records, err := e.store.Load(ctx)
	if err != nil {
		return domain.AttemptRecord{}, fmt.Errorf("load leaderboard: %w", err)
	}

	rec := domain.AttemptRecord{
		ID:              e.newID(),
		DisplayName:     id.DisplayName,
		Score:           out.Score,
		TotalQuestions:  out.TotalQuestions,
		Tier:            out.Tier,
		Glyph:           out.Glyph,
		DomainName:      a.DomainName,
		TopicName:       a.TopicName,
		CompletedAt:     a.CompletedAt,
		AccuracyPercent: AccuracyPercent(out.Score, out.TotalQuestions),
		Seq:             nextSeq(records),
	}

	if err := e.save(ctx, append(records, rec)); err != nil {
		return domain.AttemptRecord{}, err
	}
	return rec, nil
}

// Seed inserts historical rows through the same sort-and-trim path as Record.
// Tier, glyph, accuracy, id and seq are derived here; only name, score, total,
// domain, topic and completion time are read from the input.
func (e *Engine) Seed(ctx context.Context, seed []domain.AttemptRecord) error {
	records, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load leaderboard: %w", err)
	}
	seq := nextSeq(records)
	for _, in := range seed {
		out, err := Outcome(in.Score, in.TotalQuestions)
		if err != nil {
			return fmt.Errorf("seed %q: %w", in.DisplayName, err)
		}
		records = append(records, domain.AttemptRecord{
			ID:              e.newID(),
			DisplayName:     in.DisplayName,
			Score:           out.Score,
			TotalQuestions:  out.TotalQuestions,
			Tier:            out.Tier,
			Glyph:           out.Glyph,
			DomainName:      in.DomainName,
			TopicName:       in.TopicName,
			CompletedAt:     in.CompletedAt,
			AccuracyPercent: AccuracyPercent(out.Score, out.TotalQuestions),
			Seq:             seq,
		})
		seq++
	}
	return e.save(ctx, records)
}

func (e *Engine) save(ctx context.Context, records []domain.AttemptRecord) error {
	sortRecords(records)
	if len(records) > e.capacity {
		records = records[:e.capacity]
	}
	if err := e.store.Save(ctx, records); err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}
	return nil
}

// RankOf returns the 1-based position of the best-ranked entry named displayName.
// Evicted or never-recorded names report ok=false.
func (e *Engine) RankOf(ctx context.Context, displayName string) (int, bool, error) {
	records, err := e.Entries(ctx)
	if err != nil {
		return 0, false, err
	}
	for i, rec := range records {
		if rec.DisplayName == displayName {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

// FilteredView filters by tier first and then takes the first limit rows.
func (e *Engine) FilteredView(ctx context.Context, filter domain.TierFilter, limit int) ([]domain.AttemptRecord, error) {
	if limit <= 0 {
		limit = DefaultViewLimit
	}
	records, err := e.Entries(ctx)
	if err != nil {
		return nil, err
	}
	view := make([]domain.AttemptRecord, 0, limit)
	for _, rec := range records {
		if !filter.Match(rec) {
			continue
		}
		view = append(view, rec)
		if len(view) == limit {
			break
		}
	}
	return view, nil
}

// Entries returns the full leaderboard in rank order.
func (e *Engine) Entries(ctx context.Context) ([]domain.AttemptRecord, error) {
	records, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	// Rank order is re-derived on every read.
	sortRecords(records)
	return records, nil
}

// sortRecords orders by score desc, completion time desc, then insertion sequence desc.
func sortRecords(records []domain.AttemptRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.CompletedAt.Equal(b.CompletedAt) {
			return a.CompletedAt.After(b.CompletedAt)
		}
		return a.Seq > b.Seq
	})
}

func nextSeq(records []domain.AttemptRecord) int64 {
	var top int64
	for _, rec := range records {
		if rec.Seq > top {
			top = rec.Seq
		}
	}
	return top + 1
}
