package app

import (
	"fmt"

	"forest-quiz-hub/internal/domain"
)

// AnswerFeedback is returned after a question is answered.
type AnswerFeedback struct {
	Correct      bool
	Chosen       int
	CorrectIndex int
	Explanation  string
}

// Progress describes where the runner is within the question set.
type Progress struct {
	Index    int // zero-based index of the current question
	Total    int
	Answered bool
	Score    int
}

// quizRunner sequences one attempt: each question is answered exactly once, then advanced.
type quizRunner struct {
	questions []domain.Question
	index     int
	answered  bool
	score     int
}

func newQuizRunner(questions []domain.Question) *quizRunner {
	return &quizRunner{questions: questions}
}

func (r *quizRunner) current() domain.Question {
	return r.questions[r.index]
}

func (r *quizRunner) total() int { return len(r.questions) }

func (r *quizRunner) isLast() bool { return r.index == len(r.questions)-1 }

func (r *quizRunner) answer(choice int) (AnswerFeedback, error) {
	if r.answered {
		return AnswerFeedback{}, fmt.Errorf("%w: question %d already answered", domain.ErrInvalidTransition, r.index+1)
	}
	q := r.current()
	if choice < 0 || choice >= len(q.Options) {
		return AnswerFeedback{}, fmt.Errorf("%w: %d of %d", domain.ErrOptionOutOfRange, choice, len(q.Options))
	}
	r.answered = true
	correct := choice == q.CorrectIndex
	if correct {
		r.score++
	}
	return AnswerFeedback{
		Correct:      correct,
		Chosen:       choice,
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
	}, nil
}

// advance moves to the next question; it reports false on the last one.
func (r *quizRunner) advance() (bool, error) {
	if !r.answered {
		return false, fmt.Errorf("%w: question %d not answered", domain.ErrInvalidTransition, r.index+1)
	}
	if r.isLast() {
		return false, nil
	}
	r.index++
	r.answered = false
	return true, nil
}

func (r *quizRunner) progress() Progress {
	return Progress{Index: r.index, Total: len(r.questions), Answered: r.answered, Score: r.score}
}
