package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"solarmon/backend/services/meter-service/internal/telegram"
)

// NewChatIDCommand creates the chat-id command.
func NewChatIDCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat-id",
		Short: "List Telegram chats that messaged the bot",
		Long: `List the chat IDs found in the bot's pending updates. Send any message to
the bot first, then set the ID from the right chat as telegram.chatId.

The webhook must not be registered while running this, as Telegram only
serves getUpdates to bots without one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Telegram.BotToken == "" {
				return errors.New("telegram bot token is not configured (TELEGRAM_BOT_TOKEN)")
			}
			logger, err := rootOpts.consoleLogger()
			if err != nil {
				return err
			}
			defer logger.Sync() // best-effort flush

			client := telegram.NewClient(cfg.Telegram.APIURL, cfg.Telegram.BotToken, cfg.TelegramTimeout(), logger)
			updates, err := client.GetUpdates(cmd.Context())
			if err != nil {
				return err
			}

			chats := telegram.FormatChats(updates)
			out := cmd.OutOrStdout()
			if chats == "" {
				fmt.Fprintln(out, "No messages found. Send a message to the bot first, then run this again.")
				return nil
			}
			fmt.Fprintln(out, "Telegram chat IDs:")
			fmt.Fprint(out, chats)
			return nil
		},
	}
}
