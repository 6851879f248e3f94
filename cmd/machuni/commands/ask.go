package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShrillShrestha/Machuni/internal/assistant"
)

// NewAskCmd constructs the `machuni ask` command, which answers a single
// natural language question from the document corpus.
func NewAskCmd() *cobra.Command {
	var language string
	var status string
	var country string
	var state string
	var interests []string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question grounded in the newcomer document corpus",
		Long: `Ask Machuni a natural language question about living in the United States.

The answer is grounded in the ingested corpus. Profile flags tailor the answer
to your situation; --language selects the answer language.

Examples:
  machuni ask "how do I open a bank account without an SSN?"
  machuni ask --language nepali "what documents do I need for a driver's license?"
  machuni ask --status "F-1 student" --state Texas "can I work off campus?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := slog.Default()

			stack, err := buildStack(ctx, log)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			defer stack.Close()

			question := strings.Join(args, " ")
			answer, outcome := stack.assistant.Answer(ctx, question, language, assistant.Filters{
				Status:    status,
				Country:   country,
				State:     state,
				Interests: interests,
			})

			fmt.Println(answer)
			if outcome != assistant.OutcomeAnswered {
				log.Debug("question not answered from corpus", slog.String("outcome", string(outcome)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Answer language (english, nepali, spanish, hindi)")
	cmd.Flags().StringVar(&status, "status", "", "Immigration status (e.g. \"F-1 student\")")
	cmd.Flags().StringVar(&country, "country", "", "Country of origin")
	cmd.Flags().StringVar(&state, "state", "", "US state of residence")
	cmd.Flags().StringArrayVar(&interests, "interest", nil, "Topic of interest (repeatable)")

	return cmd
}
