// Package catalog holds the read-only content the workflow draws from: domains,
// topics, questions, report narratives and the demo leaderboard.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"forest-quiz-hub/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var bundled []byte

type document struct {
	Domains    []domain.Domain              `yaml:"domains"`
	Topics     []domain.Topic               `yaml:"topics"`
	Questions  map[string][]domain.Question `yaml:"questions"`
	Narratives struct {
		FallbackFindings   string                       `yaml:"fallbackFindings"`
		FallbackInnovation string                       `yaml:"fallbackInnovation"`
		Findings           map[string]map[string]string `yaml:"findings"`
		Innovation         map[string]map[string]string `yaml:"innovation"`
	} `yaml:"narratives"`
	DemoLeaderboard []struct {
		Name        string    `yaml:"name"`
		Score       int       `yaml:"score"`
		Total       int       `yaml:"total"`
		Domain      string    `yaml:"domain"`
		Topic       string    `yaml:"topic"`
		CompletedAt time.Time `yaml:"completedAt"`
	} `yaml:"demoLeaderboard"`
}

// Catalog is an immutable, YAML-backed content provider.
type Catalog struct {
	doc document
}

// Bundled returns the catalog compiled into the binary.
func Bundled() (*Catalog, error) {
	return Parse(bundled)
}

// Load reads a catalog file from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for topicID, qs := range doc.Questions {
		for _, q := range qs {
			if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
				return nil, fmt.Errorf("catalog: question %s/%s: correct index %d out of range", topicID, q.ID, q.CorrectIndex)
			}
		}
	}
	return &Catalog{doc: doc}, nil
}

func (c *Catalog) Domains(_ context.Context) ([]domain.Domain, error) {
	return append([]domain.Domain(nil), c.doc.Domains...), nil
}

func (c *Catalog) Topics(_ context.Context) ([]domain.Topic, error) {
	return append([]domain.Topic(nil), c.doc.Topics...), nil
}

// LoadQuestions returns the ordered question set for a topic.
func (c *Catalog) LoadQuestions(_ context.Context, topicID string) ([]domain.Question, error) {
	qs, ok := c.doc.Questions[topicID]
	if !ok {
		return nil, domain.ErrTopicNotFound
	}
	return append([]domain.Question(nil), qs...), nil
}

// QuestionSets exposes every topic's questions, keyed by topic id.
func (c *Catalog) QuestionSets() map[string][]domain.Question {
	out := make(map[string][]domain.Question, len(c.doc.Questions))
	for id, qs := range c.doc.Questions {
		out[id] = append([]domain.Question(nil), qs...)
	}
	return out
}

// Findings returns the report's key findings for a domain/topic pair.
func (c *Catalog) Findings(d domain.Domain, t domain.Topic) string {
	if s, ok := c.doc.Narratives.Findings[d.ID][t.ID]; ok {
		return s
	}
	return c.doc.Narratives.FallbackFindings
}

// InnovationIdea returns the report's suggested innovation for a domain/topic pair.
func (c *Catalog) InnovationIdea(d domain.Domain, t domain.Topic) string {
	if s, ok := c.doc.Narratives.Innovation[d.ID][t.ID]; ok {
		return s
	}
	return c.doc.Narratives.FallbackInnovation
}

// DemoLeaderboard returns the sample rows used to seed an empty board.
// Only identity, score and provenance are filled in; the engine derives the rest.
func (c *Catalog) DemoLeaderboard() []domain.AttemptRecord {
	out := make([]domain.AttemptRecord, 0, len(c.doc.DemoLeaderboard))
	for _, row := range c.doc.DemoLeaderboard {
		out = append(out, domain.AttemptRecord{
			DisplayName:    row.Name,
			Score:          row.Score,
			TotalQuestions: row.Total,
			DomainName:     row.Domain,
			TopicName:      row.Topic,
			CompletedAt:    row.CompletedAt,
		})
	}
	return out
}
