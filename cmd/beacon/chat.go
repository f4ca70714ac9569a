package main

import (
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"beacon/internal/auth"
	"beacon/internal/client"
	"beacon/internal/config"
	"beacon/internal/panel"
	"beacon/internal/resource"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, err := config.DurationOrDefault(cfg.Server.RequestTimeout, config.DefaultServerRequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid server.request_timeout: %w", err)
		}

		tokens := auth.NewStaticTokenSource(cfg.Auth.Token)
		c := client.New(cfg.Server.BaseURL, tokens, timeout)
		getter := resource.NewDirGetter(cfg.Resources.ManifestDir)
		p := panel.New(c, tokens, getter)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Chat.Location != "" {
			location, err := url.Parse(cfg.Chat.Location)
			if err != nil {
				return fmt.Errorf("invalid chat.location: %w", err)
			}
			p.Navigate(location.Path, location.Query())
		}

		repl := NewREPL(ctx, p)
		return repl.Start()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("chat.location", config.DefaultChatLocation, "console location to resolve the initial resource context from")
}
