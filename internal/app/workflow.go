package app

import (
	"context"
	"fmt"
	"time"

	"forest-quiz-hub/internal/domain"
	"forest-quiz-hub/internal/scoreboard"
)

// Catalog supplies the selectable domains and topics (read-only).
type Catalog interface {
	Domains(ctx context.Context) ([]domain.Domain, error)
	Topics(ctx context.Context) ([]domain.Topic, error)
}

// QuestionRepository loads a topic's ordered questions (from cache/backing store).
type QuestionRepository interface {
	Questions(ctx context.Context, topicID string) ([]domain.Question, error)
}

// Narrator produces the descriptive report text for a domain/topic pair.
type Narrator interface {
	Findings(d domain.Domain, t domain.Topic) string
	InnovationIdea(d domain.Domain, t domain.Topic) string
}

// Scoreboard is the slice of scoreboard.Engine the workflow needs.
type Scoreboard interface {
	Record(ctx context.Context, a scoreboard.Attempt) (domain.AttemptRecord, error)
	RankOf(ctx context.Context, displayName string) (int, bool, error)
	FilteredView(ctx context.Context, filter domain.TierFilter, limit int) ([]domain.AttemptRecord, error)
}

// Workflow sequences one user's session through the guided steps.
// It is driven by one caller at a time and holds no locks.
type Workflow struct {
	board     Scoreboard
	catalog   Catalog
	questions QuestionRepository
	narrator  Narrator
	now       func() time.Time

	step      domain.Step
	selection domain.Selection
	quiz      *quizRunner
	outcome   *domain.QuizOutcome
	rank      int
	identity  *domain.Identity
	gateOpen  bool
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithClock is test-only for deterministic completion timestamps.
func WithClock(now func() time.Time) WorkflowOption {
	return func(w *Workflow) { w.now = now }
}

// WithIdentity starts the session with an already known identity.
func WithIdentity(id domain.Identity) WorkflowOption {
	return func(w *Workflow) {
		n := id.Normalize()
		w.identity = &n
	}
}

func NewWorkflow(board Scoreboard, catalog Catalog, questions QuestionRepository, narrator Narrator, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		board:     board,
		catalog:   catalog,
		questions: questions,
		narrator:  narrator,
		now:       time.Now,
		step:      domain.StepIntroduction,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func invalid(op, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", domain.ErrInvalidTransition, op, fmt.Sprintf(format, args...))
}

// Begin leaves the introduction for domain selection.
func (w *Workflow) Begin() error {
	if w.step != domain.StepIntroduction {
		return invalid("begin", "current step is %s", w.step)
	}
	w.step = domain.StepDomainSelection
	return nil
}

// SelectDomain stores the chosen domain. It does not advance.
func (w *Workflow) SelectDomain(ctx context.Context, domainID string) error {
	if w.step != domain.StepDomainSelection {
		return invalid("select domain", "current step is %s", w.step)
	}
	domains, err := w.catalog.Domains(ctx)
	if err != nil {
		return fmt.Errorf("list domains: %w", err)
	}
	for i := range domains {
		if domains[i].ID == domainID {
			d := domains[i]
			w.selection.Domain = &d
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrDomainNotFound, domainID)
}

// AdvanceToTopics moves on once a domain is chosen.
func (w *Workflow) AdvanceToTopics() error {
	if w.step != domain.StepDomainSelection {
		return invalid("advance to topics", "current step is %s", w.step)
	}
	if w.selection.Domain == nil {
		return invalid("advance to topics", "no domain selected")
	}
	w.step = domain.StepTopicSelection
	return nil
}

// SelectTopic stores the chosen topic. It does not advance.
func (w *Workflow) SelectTopic(ctx context.Context, topicID string) error {
	if w.step != domain.StepTopicSelection {
		return invalid("select topic", "current step is %s", w.step)
	}
	topics, err := w.catalog.Topics(ctx)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	for i := range topics {
		if topics[i].ID == topicID {
			t := topics[i]
			w.selection.Topic = &t
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrTopicNotFound, topicID)
}

// AdvanceToQuiz loads the topic's questions and starts the quiz.
// Nothing changes unless both selections are set and questions exist.
func (w *Workflow) AdvanceToQuiz(ctx context.Context) error {
	if w.step != domain.StepTopicSelection {
		return invalid("advance to quiz", "current step is %s", w.step)
	}
	if w.selection.Domain == nil || w.selection.Topic == nil {
		return invalid("advance to quiz", "domain and topic must both be selected")
	}
	qs, err := w.questions.Questions(ctx, w.selection.Topic.ID)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	if len(qs) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNoQuestions, w.selection.Topic.ID)
	}
	w.quiz = newQuizRunner(qs)
	w.step = domain.StepQuiz
	return nil
}

func (w *Workflow) inQuiz(op string) error {
	if w.gateOpen {
		return invalid(op, "registration pending")
	}
	if w.step != domain.StepQuiz || w.quiz == nil {
		return invalid(op, "current step is %s", w.step)
	}
	return nil
}

// AnswerQuestion scores the current question. Each question accepts one answer.
func (w *Workflow) AnswerQuestion(choice int) (AnswerFeedback, error) {
	if err := w.inQuiz("answer question"); err != nil {
		return AnswerFeedback{}, err
	}
	return w.quiz.answer(choice)
}

// NextQuestion advances the quiz. After the last question it completes the quiz
// with the accumulated score and reports done=true.
func (w *Workflow) NextQuestion(ctx context.Context) (bool, error) {
	if err := w.inQuiz("next question"); err != nil {
		return false, err
	}
	moved, err := w.quiz.advance()
	if err != nil {
		return false, err
	}
	if moved {
		return false, nil
	}
	if err := w.CompleteQuiz(ctx, w.quiz.score); err != nil {
		return false, err
	}
	return true, nil
}

// CompleteQuiz classifies the score. Without a known identity it opens the
// registration gate; otherwise it records the attempt and shows the report.
func (w *Workflow) CompleteQuiz(ctx context.Context, score int) error {
	if err := w.inQuiz("complete quiz"); err != nil {
		return err
	}
	out, err := scoreboard.Outcome(score, w.quiz.total())
	if err != nil {
		return err
	}

	if w.identity == nil {
		w.outcome = &out
		w.gateOpen = true
		return nil
	}

	rank, err := w.recordAttempt(ctx, *w.identity, out)
	if err != nil {
		return err
	}
	w.outcome = &out
	w.rank = rank
	w.step = domain.StepReport
	return nil
}

// SubmitIdentity closes the registration gate, remembers the identity for the
// session and records the pending attempt. A malformed identity keeps the gate open.
func (w *Workflow) SubmitIdentity(ctx context.Context, id domain.Identity) error {
	if !w.gateOpen {
		return invalid("submit identity", "registration is not pending")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	n := id.Normalize()
	rank, err := w.recordAttempt(ctx, n, *w.outcome)
	if err != nil {
		return err
	}
	w.identity = &n
	w.rank = rank
	w.gateOpen = false
	w.step = domain.StepReport
	return nil
}

// SkipIdentity closes the registration gate without recording; no rank is shown.
func (w *Workflow) SkipIdentity() error {
	if !w.gateOpen {
		return invalid("skip identity", "registration is not pending")
	}
	w.gateOpen = false
	w.rank = 0
	w.step = domain.StepReport
	return nil
}

func (w *Workflow) recordAttempt(ctx context.Context, id domain.Identity, out domain.QuizOutcome) (int, error) {
	rec, err := w.board.Record(ctx, scoreboard.Attempt{
		Identity:    id,
		Outcome:     out,
		DomainName:  w.selection.Domain.Name,
		TopicName:   w.selection.Topic.Name,
		CompletedAt: w.now(),
	})
	if err != nil {
		return 0, fmt.Errorf("record attempt: %w", err)
	}
	rank, ok, err := w.board.RankOf(ctx, rec.DisplayName)
	if err != nil {
		return 0, fmt.Errorf("rank attempt: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return rank, nil
}

// ViewLeaderboard switches from the report to the leaderboard.
func (w *Workflow) ViewLeaderboard() error {
	if w.step != domain.StepReport {
		return invalid("view leaderboard", "current step is %s", w.step)
	}
	w.step = domain.StepLeaderboard
	return nil
}

// BackToReport returns from the leaderboard to the report.
func (w *Workflow) BackToReport() error {
	if w.step != domain.StepLeaderboard {
		return invalid("back to report", "current step is %s", w.step)
	}
	w.step = domain.StepReport
	return nil
}

// Restart returns to the introduction and clears the attempt. The session identity is kept.
func (w *Workflow) Restart() {
	w.step = domain.StepIntroduction
	w.selection = domain.Selection{}
	w.quiz = nil
	w.outcome = nil
	w.rank = 0
	w.gateOpen = false
}

func (w *Workflow) Step() domain.Step { return w.step }

// GateOpen reports whether identity capture is pending.
func (w *Workflow) GateOpen() bool { return w.gateOpen }

func (w *Workflow) Selection() domain.Selection { return w.selection }

// Outcome returns the current attempt's result, if the quiz has completed.
func (w *Workflow) Outcome() (domain.QuizOutcome, bool) {
	if w.outcome == nil {
		return domain.QuizOutcome{}, false
	}
	return *w.outcome, true
}

// Rank returns the recorded attempt's leaderboard position, if any.
func (w *Workflow) Rank() (int, bool) {
	return w.rank, w.rank > 0
}

// Identity returns the session identity, if one was supplied.
func (w *Workflow) Identity() (domain.Identity, bool) {
	if w.identity == nil {
		return domain.Identity{}, false
	}
	return *w.identity, true
}

// CurrentQuestion returns the question awaiting an answer while in the quiz step.
func (w *Workflow) CurrentQuestion() (domain.Question, bool) {
	if w.step != domain.StepQuiz || w.quiz == nil {
		return domain.Question{}, false
	}
	return w.quiz.current(), true
}

// Progress reports the quiz position while in the quiz step.
func (w *Workflow) Progress() (Progress, bool) {
	if w.step != domain.StepQuiz || w.quiz == nil {
		return Progress{}, false
	}
	return w.quiz.progress(), true
}

// Report assembles the report view. Valid on the report and leaderboard steps.
func (w *Workflow) Report() (domain.Report, error) {
	if w.step != domain.StepReport && w.step != domain.StepLeaderboard {
		return domain.Report{}, invalid("report", "current step is %s", w.step)
	}
	d, t := *w.selection.Domain, *w.selection.Topic
	return domain.Report{
		Domain:         d,
		Topic:          t,
		Outcome:        *w.outcome,
		Findings:       w.narrator.Findings(d, t),
		InnovationIdea: w.narrator.InnovationIdea(d, t),
		Rank:           w.rank,
	}, nil
}

// Leaderboard returns the filtered top-limit view of the scoreboard.
func (w *Workflow) Leaderboard(ctx context.Context, filter domain.TierFilter, limit int) ([]domain.AttemptRecord, error) {
	return w.board.FilteredView(ctx, filter, limit)
}

func (w *Workflow) Domains(ctx context.Context) ([]domain.Domain, error) { return w.catalog.Domains(ctx) }

func (w *Workflow) Topics(ctx context.Context) ([]domain.Topic, error) { return w.catalog.Topics(ctx) }
