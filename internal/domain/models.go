package domain

import "time"

// Domain is a selectable research area (a forest in the bundled catalog).
type Domain struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Location    string `json:"location" yaml:"location"`
	Emoji       string `json:"emoji" yaml:"emoji"`
	Description string `json:"description" yaml:"description"`
}

// Topic is a sub-topic investigated within a domain.
type Topic struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Question models a multiple choice question with exactly one correct option.
type Question struct {
	ID           string   `json:"id" yaml:"id"`
	Prompt       string   `json:"prompt" yaml:"prompt"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correctIndex" yaml:"correct"`
	Explanation  string   `json:"explanation,omitempty" yaml:"explanation"`
}

// Selection holds the user's current domain and topic choices. Nil means unset.
type Selection struct {
	Domain *Domain
	Topic  *Topic
}

// QuizOutcome is the classified result of one completed quiz.
type QuizOutcome struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Tier           Tier   `json:"tier"`
	Glyph          string `json:"glyph"`
}

// AttemptRecord is an immutable leaderboard row for one identified attempt.
type AttemptRecord struct {
	ID              string    `json:"id" db:"id"`
	DisplayName     string    `json:"displayName" db:"display_name"`
	Score           int       `json:"score" db:"score"`
	TotalQuestions  int       `json:"totalQuestions" db:"total_questions"`
	Tier            Tier      `json:"tier" db:"tier"`
	Glyph           string    `json:"glyph" db:"glyph"`
	DomainName      string    `json:"domainName" db:"domain_name"`
	TopicName       string    `json:"topicName" db:"topic_name"`
	CompletedAt     time.Time `json:"completedAt" db:"completed_at"`
	AccuracyPercent int       `json:"accuracyPercent" db:"accuracy_percent"`
	// Seq is the insertion counter; later insertions rank first on a full tie.
	Seq int64 `json:"seq" db:"seq"`
}

// Report is what the report step renders.
type Report struct {
	Domain         Domain
	Topic          Topic
	Outcome        QuizOutcome
	Findings       string
	InnovationIdea string
	// Rank is zero when the attempt was not recorded or has been evicted.
	Rank int
}
