package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"forest-quiz-hub/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches a topic's question set from a backing store (embedded catalog, Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, topicID string) ([]domain.Question, error)
}

// QuestionRepository caches question sets with TTL to avoid repeated loader hits.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestions),
	}
}

// Questions returns the ordered question set for a topic.
func (r *QuestionRepository) Questions(ctx context.Context, topicID string) ([]domain.Question, error) {
	if qs, ok := r.lookup(topicID, r.clock()); ok {
		return qs, nil
	}

	result, err, _ := r.sf.Do(topicID, func() (interface{}, error) {
		now := r.clock()
		if qs, ok := r.lookup(topicID, now); ok {
			return qs, nil
		}

		qs, err := r.loader.LoadQuestions(ctx, topicID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[topicID] = cachedQuestions{
			questions: qs,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneQuestions(result.([]domain.Question)), nil
}

func (r *QuestionRepository) lookup(topicID string, now time.Time) ([]domain.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[topicID]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return cloneQuestions(entry.questions), true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuestionLoader struct {
	questions map[string][]domain.Question
}

func NewStaticQuestionLoader(questions map[string][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, topicID string) ([]domain.Question, error) {
	if qs, ok := l.questions[topicID]; ok {
		return qs, nil
	}
	return nil, domain.ErrTopicNotFound
}

func cloneQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
