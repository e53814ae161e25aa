package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version information, injected at build time via ldflags.
var (
	Version   = "dev"
	Build     = "unknown"
	BuildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "slack-gateway",
	Short: "HTTP gateway that proxies Slack Web API calls with per-user credentials",
	Long: `slack-gateway is an HTTP service that fronts the Slack Web API for a
portal backend. Each request resolves a credential for the caller: a
connected user's token first, then a partner bot token, then the global
bot token. Channel and user directories are cached with a short TTL.

Configuration is via YAML file plus SLACK_GATEWAY_* environment variables.`,
	Version: fmt.Sprintf("%s (build %s, %s)", Version, Build, BuildTime),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to config file (default: ./slack-gateway.yaml)")
}

func main() {
	// A missing .env file is fine; real deployments use the environment.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
