package domain

// Step is the current stage of the guided workflow.
type Step int

const (
	StepIntroduction Step = iota
	StepDomainSelection
	StepTopicSelection
	StepQuiz
	StepReport
	StepLeaderboard
)

func (s Step) String() string {
	switch s {
	case StepIntroduction:
		return "introduction"
	case StepDomainSelection:
		return "domain-selection"
	case StepTopicSelection:
		return "topic-selection"
	case StepQuiz:
		return "quiz"
	case StepReport:
		return "report"
	case StepLeaderboard:
		return "leaderboard"
	default:
		return "unknown"
	}
}
