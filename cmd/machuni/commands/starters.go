package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ShrillShrestha/Machuni/internal/assistant"
)

// NewStartersCmd constructs the `machuni starters` command, which prints
// suggested starter questions tailored to a user profile.
func NewStartersCmd() *cobra.Command {
	var language string
	var status string
	var country string
	var state string

	cmd := &cobra.Command{
		Use:   "starters",
		Short: "Suggest starter questions tailored to a user profile",
		Long: `Generate a short list of starter questions a newcomer with the given
profile is likely to ask, based on what the corpus can actually answer.

Falls back to a built-in list when the model or vector store is unreachable,
so this command always produces output.

Examples:
  machuni starters
  machuni starters --status "F-1 student" --state "New York"
  machuni starters --language nepali`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := slog.Default()

			stack, err := buildStack(ctx, log)
			if err != nil {
				return fmt.Errorf("starters: %w", err)
			}
			defer stack.Close()

			questions := stack.assistant.StarterQuestions(ctx, assistant.StarterProfile{
				Status:   status,
				Country:  country,
				State:    state,
				Language: language,
			})

			for _, q := range questions {
				fmt.Println(q)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Question language (english, nepali, spanish, hindi)")
	cmd.Flags().StringVar(&status, "status", "", "Immigration status (e.g. \"F-1 student\")")
	cmd.Flags().StringVar(&country, "country", "", "Country of origin")
	cmd.Flags().StringVar(&state, "state", "", "US state of residence")

	return cmd
}
