package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/d3vos/scout-go/internal/logging"
)

// NewAskCmd constructs the `scout ask` command, which answers a single
// question and prints the result to stdout.
func NewAskCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the research agent a single question",
		Long: `Ask the agent a natural language question. The agent routes the question
to the ingested documents, live web search, or both, and prints a cited
answer.

The exchange is recorded in the session's conversation history, so follow-up
questions with the same --session can refer back to it.

Examples:
  scout ask "what optimizer does the paper use?"
  scout ask --session literature "when was go 1.26 released?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New()
			ctx := logging.WithLogger(cmd.Context(), log)

			researchAgent, closeAgent, err := buildAgent(ctx, log, session)
			if err != nil {
				closeAgent()
				return fmt.Errorf("ask: %w", err)
			}
			defer closeAgent()

			answer, err := researchAgent.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			fmt.Println(answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Conversation session to record the exchange under")

	return cmd
}
