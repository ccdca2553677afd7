package commands

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/d3vos/scout-go/internal/logging"
)

// NewChatCmd constructs the `scout chat` command, an interactive REPL that
// keeps the whole exchange in one conversation session.
func NewChatCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation with the research agent",
		Long: `Start an interactive question-answering session.

Every question and answer is recorded in the same conversation session, so
follow-up questions can refer back to earlier turns ("what about its
limitations?"). Type "exit" or press Ctrl-D to quit.

Examples:
  scout chat
  scout chat --session literature`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			researchAgent, closeAgent, err := buildAgent(ctx, log, session)
			if err != nil {
				closeAgent()
				return fmt.Errorf("chat: %w", err)
			}
			defer closeAgent()

			fmt.Println("Scout interactive session. Type a question, or \"exit\" to quit.")

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					fmt.Println()
					break
				}
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				if question == "exit" || question == "quit" {
					break
				}

				answer, err := researchAgent.Ask(ctx, question)
				if err != nil {
					if ctx.Err() != nil {
						break
					}
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					continue
				}

				fmt.Println(answer)
				fmt.Println()
			}

			return scanner.Err()
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Conversation session to record the exchange under")

	return cmd
}
