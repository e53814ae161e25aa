package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrisedwards/slack-gateway/internal/config"
	"github.com/chrisedwards/slack-gateway/internal/store"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage stored Slack credentials",
}

var tokenUserCmd = &cobra.Command{
	Use:   "user <user-id> <email> <token>",
	Short: "Store a user's Slack token",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SaveProfile(cmd.Context(), args[0], args[1], args[2]); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}
		fmt.Printf("stored user token for %s\n", args[0])
		return nil
	},
}

var tokenPartnerCmd = &cobra.Command{
	Use:   "partner <partner-id> <name> <token>",
	Short: "Store a partner workspace bot token",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SavePartner(cmd.Context(), args[0], args[1], args[2]); err != nil {
			return fmt.Errorf("saving partner: %w", err)
		}
		fmt.Printf("stored bot token for partner %s\n", args[0])
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenUserCmd)
	tokenCmd.AddCommand(tokenPartnerCmd)
	rootCmd.AddCommand(tokenCmd)
}

func openStore() (*store.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.DatabasePath, err)
	}
	return db, nil
}
