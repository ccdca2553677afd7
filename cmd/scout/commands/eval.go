package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d3vos/scout-go/internal/agent"
	"github.com/d3vos/scout-go/internal/eval"
	"github.com/d3vos/scout-go/internal/logging"
	"github.com/d3vos/scout-go/internal/provider"
)

// NewEvalCmd constructs the `scout eval` command, which runs the agent
// against a YAML dataset and grades answers with an LLM judge.
func NewEvalCmd() *cobra.Command {
	var datasetPath string
	var session string

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate answer quality against a YAML dataset",
		Long: `Run the agent over every case in a YAML evaluation dataset and grade each
answer against the reference answer using an LLM judge.

The dataset format:

  name: smoke
  cases:
    - question: "When was Go 1.26 released?"
      answer: "February 2026"

Each case runs through the full pipeline (routing, retrieval, synthesis),
so the evaluated answers reflect what users would actually see.

Examples:
  scout eval --dataset eval/smoke.yaml
  MODEL_PROVIDER=openai scout eval --dataset eval/regression.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			ds, err := eval.LoadDataset(datasetPath)
			if err != nil {
				return fmt.Errorf("eval: %w", err)
			}

			researchAgent, closeAgent, err := buildAgent(ctx, log, session)
			if err != nil {
				closeAgent()
				return fmt.Errorf("eval: %w", err)
			}
			defer closeAgent()

			// Grading is a constrained one-word task, so the judge reuses
			// the routing tier's small model.
			judgeModel, err := provider.NewFromEnv(ctx, provider.TierRouting)
			if err != nil {
				return fmt.Errorf("eval: failed to initialise judge model: %w", err)
			}
			judge, err := agent.NewEinoModel(judgeModel)
			if err != nil {
				return fmt.Errorf("eval: %w", err)
			}

			harness, err := eval.NewHarness(researchAgent, judge)
			if err != nil {
				return fmt.Errorf("eval: %w", err)
			}

			report, err := harness.Run(ctx, ds, func(msg string) {
				log.Info(msg)
			})
			if err != nil {
				return fmt.Errorf("eval: %w", err)
			}

			for i, r := range report.Results {
				mark := "PASS"
				if !r.Correct {
					mark = "FAIL"
				}
				fmt.Printf("%s  [%d/%d] %s (%.1fs)\n", mark, i+1, len(report.Results), r.Question, r.Elapsed.Seconds())
				if r.Err != nil {
					fmt.Printf("        error: %v\n", r.Err)
				}
			}
			fmt.Printf("\n%s: %d/%d correct (%.0f%%)\n", report.Dataset, correctCount(report), len(report.Results), report.Accuracy()*100)

			if report.Accuracy() < 1.0 {
				return fmt.Errorf("eval: %d of %d cases failed", len(report.Results)-correctCount(report), len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&datasetPath, "dataset", "d", "", "Path to the YAML evaluation dataset (required)")
	cmd.Flags().StringVarP(&session, "session", "s", "eval", "Conversation session for evaluation runs")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func correctCount(r *eval.Report) int {
	n := 0
	for _, res := range r.Results {
		if res.Correct {
			n++
		}
	}
	return n
}
