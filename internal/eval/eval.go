// Package eval implements the answer-quality evaluation harness invoked by
// the `scout eval` CLI command. It replays a dataset of question/reference
// pairs through the agent and grades each answer with an LLM judge.
package eval

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/d3vos/scout-go/internal/agent"
	"github.com/d3vos/scout-go/internal/logging"
)

// Case is one evaluation example.
type Case struct {
	// Question is posed to the agent.
	Question string `yaml:"question"`

	// Answer is the reference answer the judge grades against.
	Answer string `yaml:"answer"`
}

// Dataset is a named collection of evaluation cases.
type Dataset struct {
	// Name labels the dataset in reports.
	Name string `yaml:"name"`

	// Cases holds the examples, run in order.
	Cases []Case `yaml:"cases"`
}

// LoadDataset reads a YAML dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("eval: reading dataset: %w", err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("eval: parsing dataset %s: %w", path, err)
	}
	if len(ds.Cases) == 0 {
		return nil, fmt.Errorf("eval: dataset %s contains no cases", path)
	}
	for i, c := range ds.Cases {
		if strings.TrimSpace(c.Question) == "" {
			return nil, fmt.Errorf("eval: dataset %s case %d has an empty question", path, i+1)
		}
	}

	return &ds, nil
}

// judgeSystemPrompt instructs the grading model. The reply must be a single
// word so parsing stays trivial.
const judgeSystemPrompt = `You are grading a question-answering system. You are given a question, a
reference answer, and the system's answer.

Grade the system's answer "correct" when it contains the substance of the
reference answer, even if worded differently or more detailed. Grade it
"incorrect" when it contradicts the reference, misses its substance, or says
no information was found.

Respond with exactly one word: correct or incorrect.`

// Result is the graded outcome for one case.
type Result struct {
	Question string
	Expected string
	Actual   string
	Correct  bool
	Elapsed  time.Duration
	// Err is set when the agent failed to answer; the case counts as
	// incorrect.
	Err error
}

// Report summarizes one harness run.
type Report struct {
	Dataset string
	Results []Result
}

// Accuracy returns the fraction of correct cases in [0, 1].
func (r *Report) Accuracy() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	correct := 0
	for _, res := range r.Results {
		if res.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(r.Results))
}

// asker is the slice of the agent the harness drives.
type asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Harness runs datasets through an agent and grades the answers.
type Harness struct {
	agent asker
	judge agent.LanguageModel
}

// NewHarness constructs a Harness from the agent under test and the judge
// model.
func NewHarness(a asker, judge agent.LanguageModel) (*Harness, error) {
	if a == nil {
		return nil, fmt.Errorf("eval: agent must not be nil")
	}
	if judge == nil {
		return nil, fmt.Errorf("eval: judge must not be nil")
	}
	return &Harness{agent: a, judge: judge}, nil
}

// Run replays every case through the agent and grades each answer.
// Agent failures mark the case incorrect rather than aborting the run; a
// judge failure aborts, since without grades the report is meaningless.
func (h *Harness) Run(ctx context.Context, ds *Dataset, progress func(msg string)) (*Report, error) {
	if progress == nil {
		progress = func(string) {}
	}

	report := &Report{Dataset: ds.Name}
	log := logging.FromContext(ctx)

	for i, c := range ds.Cases {
		progress(fmt.Sprintf("[%d/%d] %s", i+1, len(ds.Cases), c.Question))

		start := time.Now()
		actual, err := h.agent.Ask(ctx, c.Question)
		elapsed := time.Since(start)

		if err != nil {
			log.Warn("eval: agent failed on case",
				slog.Int("case", i+1),
				slog.Any("error", err),
			)
			report.Results = append(report.Results, Result{
				Question: c.Question,
				Expected: c.Answer,
				Elapsed:  elapsed,
				Err:      err,
			})
			continue
		}

		correct, err := h.grade(ctx, c, actual)
		if err != nil {
			return nil, fmt.Errorf("eval: grading case %d: %w", i+1, err)
		}

		report.Results = append(report.Results, Result{
			Question: c.Question,
			Expected: c.Answer,
			Actual:   actual,
			Correct:  correct,
			Elapsed:  elapsed,
		})
	}

	return report, nil
}

// grade asks the judge model whether the actual answer matches the reference.
func (h *Harness) grade(ctx context.Context, c Case, actual string) (bool, error) {
	prompt := fmt.Sprintf("Question: %s\n\nReference answer: %s\n\nSystem answer:\n%s",
		c.Question, c.Answer, actual)

	verdict, err := h.judge.Complete(ctx, judgeSystemPrompt, prompt)
	if err != nil {
		return false, err
	}

	word := strings.ToLower(strings.TrimSpace(verdict))
	word = strings.Trim(word, ".!\"'`")
	switch word {
	case "correct":
		return true, nil
	case "incorrect":
		return false, nil
	}
	return false, fmt.Errorf("unexpected judge verdict %q", strings.TrimSpace(verdict))
}
