package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrisedwards/slack-gateway/internal/config"
	"github.com/chrisedwards/slack-gateway/internal/gateway"
	"github.com/chrisedwards/slack-gateway/internal/match"
	"github.com/chrisedwards/slack-gateway/internal/store"
)

var (
	channelsPartner string
	channelsMatch   []string
	channelsExclude []string
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List the channels visible to the resolved credential",
	Long: `List the channels visible to the resolved credential.

Useful for checking what a partner bot token or the global bot token
can see without starting the server.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChannels(cmd.Context(), channelsPartner)
	},
}

func init() {
	channelsCmd.Flags().StringVar(&channelsPartner, "partner", "",
		"partner id whose bot token to use")
	channelsCmd.Flags().StringSliceVar(&channelsMatch, "match", nil,
		"only show channels whose name or id matches a glob")
	channelsCmd.Flags().StringSliceVar(&channelsExclude, "exclude", nil,
		"hide channels whose name or id matches a glob")
	rootCmd.AddCommand(channelsCmd)
}

func runChannels(ctx context.Context, partnerID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", cfg.DatabasePath, err)
	}
	defer db.Close()

	gw := gateway.FromConfig(cfg, db, db, logger)
	channels := match.Channels(gw.ListChannels(ctx, partnerID), channelsMatch, channelsExclude)
	if len(channels) == 0 {
		fmt.Println("no channels visible")
		return nil
	}

	for _, ch := range channels {
		kind := "public"
		switch {
		case ch.IsMpIM:
			kind = "mpim"
		case ch.IsPrivate:
			kind = "private"
		}
		fmt.Printf("%-12s %-8s %s\n", ch.ID, kind, ch.Name)
	}
	fmt.Printf("%d channels\n", len(channels))
	return nil
}
