package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"forest-quiz-hub/internal/app"
	"forest-quiz-hub/internal/config"
	"forest-quiz-hub/internal/domain"
	"github.com/spf13/cobra"
)

var errQuit = errors.New("quit")

// NewPlayCmd runs an interactive session on stdin/stdout.
func NewPlayCmd(configPath *string) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Walk through a forest research quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			svc, err := openServices(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			var opts []app.WorkflowOption
			if name != "" {
				id := domain.Identity{DisplayName: name, Contact: email}
				if err := id.Validate(); err != nil {
					return err
				}
				opts = append(opts, app.WithIdentity(id))
			}
			wf := app.NewWorkflow(svc.board, svc.catalog, svc.questions, svc.catalog, opts...)
			return newSession(cmd.InOrStdin(), cmd.OutOrStdout(), wf).run(ctx)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name; skips the registration prompt")
	cmd.Flags().StringVar(&email, "email", "", "optional contact email used with --name")
	return cmd
}

// session renders the workflow as a line-oriented dialogue.
type session struct {
	in  *bufio.Scanner
	out io.Writer
	wf  *app.Workflow
}

func newSession(in io.Reader, out io.Writer, wf *app.Workflow) *session {
	return &session{in: bufio.NewScanner(in), out: out, wf: wf}
}

// run loops until the user quits or input ends.
func (s *session) run(ctx context.Context) error {
	err := s.loop(ctx)
	if errors.Is(err, errQuit) {
		fmt.Fprintln(s.out, "Goodbye, forest guardian.")
		return nil
	}
	return err
}

func (s *session) loop(ctx context.Context) error {
	for {
		fmt.Fprintln(s.out, "Welcome to the Forest Research Hub. Pick a forest, investigate a topic and test what you learned.")
		if err := s.wf.Begin(); err != nil {
			return err
		}
		if err := s.chooseDomain(ctx); err != nil {
			return err
		}
		if err := s.chooseTopic(ctx); err != nil {
			return err
		}
		if err := s.wf.AdvanceToQuiz(ctx); err != nil {
			return err
		}
		if err := s.quiz(ctx); err != nil {
			return err
		}
		if s.wf.GateOpen() {
			if err := s.register(ctx); err != nil {
				return err
			}
		}
		restart, err := s.report(ctx)
		if err != nil {
			return err
		}
		if !restart {
			return errQuit
		}
		s.wf.Restart()
	}
}

func (s *session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// choose reads a 1-based choice and returns it zero-based.
func (s *session) choose(prompt string, n int) (int, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		if line == "q" {
			return 0, errQuit
		}
		i, err := strconv.Atoi(line)
		if err == nil && i >= 1 && i <= n {
			return i - 1, nil
		}
		fmt.Fprintf(s.out, "Please enter a number between 1 and %d.\n", n)
	}
}

func (s *session) chooseDomain(ctx context.Context) error {
	domains, err := s.wf.Domains(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "\nChoose a forest:")
	for i, d := range domains {
		fmt.Fprintf(s.out, "  %d. %s %s (%s)\n", i+1, d.Emoji, d.Name, d.Location)
	}
	i, err := s.choose("> ", len(domains))
	if err != nil {
		return err
	}
	if err := s.wf.SelectDomain(ctx, domains[i].ID); err != nil {
		return err
	}
	return s.wf.AdvanceToTopics()
}

func (s *session) chooseTopic(ctx context.Context) error {
	topics, err := s.wf.Topics(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "\nWhat will you investigate in the %s?\n", s.wf.Selection().Domain.Name)
	for i, t := range topics {
		fmt.Fprintf(s.out, "  %d. %s: %s\n", i+1, t.Name, t.Description)
	}
	i, err := s.choose("> ", len(topics))
	if err != nil {
		return err
	}
	return s.wf.SelectTopic(ctx, topics[i].ID)
}

func (s *session) quiz(ctx context.Context) error {
	for {
		q, _ := s.wf.CurrentQuestion()
		p, _ := s.wf.Progress()
		fmt.Fprintf(s.out, "\nQuestion %d of %d: %s\n", p.Index+1, p.Total, q.Prompt)
		for i, opt := range q.Options {
			fmt.Fprintf(s.out, "  %d. %s\n", i+1, opt)
		}
		choice, err := s.choose("> ", len(q.Options))
		if err != nil {
			return err
		}
		fb, err := s.wf.AnswerQuestion(choice)
		if err != nil {
			return err
		}
		if fb.Correct {
			fmt.Fprintln(s.out, "Correct!")
		} else {
			fmt.Fprintf(s.out, "Not quite. The answer is: %s\n", q.Options[fb.CorrectIndex])
		}
		if fb.Explanation != "" {
			fmt.Fprintln(s.out, fb.Explanation)
		}
		done, err := s.wf.NextQuestion(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// register asks for an identity until a valid one is given or the user skips.
func (s *session) register(ctx context.Context) error {
	fmt.Fprintln(s.out, "\nJoin the leaderboard? Enter your name, or leave it blank to skip.")
	for {
		name, err := s.readLine("Name: ")
		if err != nil {
			return err
		}
		if name == "" {
			return s.wf.SkipIdentity()
		}
		email, err := s.readLine("Email (optional): ")
		if err != nil {
			return err
		}
		err = s.wf.SubmitIdentity(ctx, domain.Identity{DisplayName: name, Contact: email})
		if errors.Is(err, domain.ErrMalformedIdentity) {
			fmt.Fprintf(s.out, "%v\n", err)
			continue
		}
		if err != nil {
			return err
		}
		log.Printf("recorded attempt for %s", name)
		return nil
	}
}

// report shows the results and the follow-up menu. It reports whether to restart.
func (s *session) report(ctx context.Context) (bool, error) {
	r, err := s.wf.Report()
	if err != nil {
		return false, err
	}
	fmt.Fprintf(s.out, "\n%s Research report: %s, %s\n", r.Outcome.Glyph, r.Domain.Name, r.Topic.Name)
	fmt.Fprintf(s.out, "Score: %d/%d, %s\n", r.Outcome.Score, r.Outcome.TotalQuestions, r.Outcome.Tier.Label())
	if r.Rank > 0 {
		fmt.Fprintf(s.out, "Leaderboard rank: #%d\n", r.Rank)
	}
	fmt.Fprintf(s.out, "Key findings: %s\n", r.Findings)
	fmt.Fprintf(s.out, "Innovation idea: %s\n", r.InnovationIdea)

	for {
		line, err := s.readLine("\n[l] leaderboard  [r] research again  [q] quit: ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "l":
			if err := s.leaderboard(ctx); err != nil {
				return false, err
			}
		case "r":
			return true, nil
		case "q":
			return false, nil
		}
	}
}

func (s *session) leaderboard(ctx context.Context) error {
	if err := s.wf.ViewLeaderboard(); err != nil {
		return err
	}
	line, err := s.readLine("Filter (all, innovation, guardian, explorer): ")
	if err != nil {
		return err
	}
	filter, err := domain.ParseTierFilter(line)
	if err != nil {
		fmt.Fprintf(s.out, "%v, showing all\n", err)
		filter = domain.AllTiers()
	}
	entries, err := s.wf.Leaderboard(ctx, filter, 0)
	if err != nil {
		return err
	}
	highlight := ""
	if id, ok := s.wf.Identity(); ok {
		highlight = id.DisplayName
	}
	if err := printLeaderboard(s.out, entries, highlight); err != nil {
		return err
	}
	return s.wf.BackToReport()
}
