package commands

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/repoflow/repoflow/internal/core/engine"
	"github.com/repoflow/repoflow/internal/integrations/github"
	"github.com/repoflow/repoflow/internal/integrations/ospo"
	"github.com/repoflow/repoflow/internal/nodes"
	"github.com/repoflow/repoflow/internal/webhook"
)

var serveDryRun bool

// serveCmd starts the webhook server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long: `Start the HTTP server that receives GitHub webhook deliveries,
loads the target repository's rules file, and runs the rule engine for
each delivery.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveDryRun, "dry-run", false, "Log side effects instead of calling the API")
}

func runServe() error {
	cfg := loadConfig()

	token := cfg.GitHub.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("a GitHub token is required to serve webhooks (config github.token or GITHUB_TOKEN)")
	}
	if cfg.Server.WebhookSecret == "" {
		cfg.Server.WebhookSecret = os.Getenv("WEBHOOK_SECRET")
	}
	if cfg.Server.WebhookSecret == "" {
		log.Printf("[serve] warning: no webhook secret configured; signatures will not be verified")
	}

	client := github.NewClient(context.Background(), token)

	deps := &engine.Dependencies{
		Repo:   client,
		DryRun: serveDryRun,
	}
	if cfg.OSPO.URL != "" {
		deps.Identity = ospo.NewResolver(cfg.OSPO.URL, cfg.OSPO.Token)
	}

	registry := engine.NewRegistry()
	nodes.RegisterAll(registry)

	server := webhook.New(cfg, client, registry, deps)

	log.Printf("[serve] listening on %s", cfg.Server.Addr)
	return http.ListenAndServe(cfg.Server.Addr, server.Router())
}
