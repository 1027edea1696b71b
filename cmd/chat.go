package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/folio/internal/ai"
	"github.com/spigell/folio/internal/responder"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the site assistant in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Bool("persona", false, "talk to the site owner persona instead of the generic assistant")
}

func chat(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup()

	capability, err := newCapability(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("creating ai capability", zap.Error(err))
	}

	role := responder.RoleChat
	if persona, _ := cmd.Flags().GetBool("persona"); persona {
		role = responder.RolePersona
	}

	r := responder.New(responderConfig(config.AI), nil, logger)

	input := promptui.Prompt{
		Label: "you",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("message is required")
			}
			return nil
		},
	}

	var history []ai.Message
	for {
		message, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			logger.Fatal("reading input", zap.Error(err))
		}

		message = strings.TrimSpace(message)
		if message == "exit" || message == "quit" {
			return
		}

		result := r.Respond(ctx, responder.Task{Role: role, Prompt: message, History: history}, capability)
		logger.Debug("reply", zap.String("kind", string(result.Kind)))

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n\n", role, result.Text)

		history = append(history,
			ai.Message{Role: ai.RoleUser, Content: message},
			ai.Message{Role: ai.RoleAssistant, Content: result.Text},
		)
	}
}
