package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/repoflow/repoflow/internal/core/config"
	"github.com/repoflow/repoflow/internal/core/engine"
	"github.com/repoflow/repoflow/internal/integrations/github"
	"github.com/repoflow/repoflow/internal/integrations/ospo"
	"github.com/repoflow/repoflow/internal/tui"
)

var (
	eventFile string
	rulesFile string
	dryRun    bool
)

// runCmd processes a single event payload locally.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the rule engine against a single event",
	Long: `Run the rule engine against one event payload without a webhook
delivery. The event is a JSON file and the rules file is read from disk,
which makes this the way to try out rule changes before committing them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&eventFile, "event", "", "Path to event JSON file (required)")
	runCmd.Flags().StringVar(&rulesFile, "rules", "", "Path to rules YAML file (required)")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log side effects instead of calling the API")
	runCmd.MarkFlagRequired("event")
	runCmd.MarkFlagRequired("rules")
}

func runOnce() error {
	cfg := loadConfig()

	data, err := os.ReadFile(eventFile)
	if err != nil {
		return fmt.Errorf("reading event file: %w", err)
	}
	var event engine.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("parsing event JSON: %w", err)
	}

	rulesData, err := os.ReadFile(rulesFile)
	if err != nil {
		return fmt.Errorf("reading rules file: %w", err)
	}
	doc, err := engine.LoadDocument(rulesData, cfg.Rules.MinSchemaVersion)
	if err != nil {
		return err
	}

	dispatch, err := doc.Resolve(event.Type, event.Action)
	if err != nil {
		return err
	}
	if dispatch.Unmapped {
		fmt.Printf("No rules for %s.%s; nothing to do.\n", event.Type, event.Action)
		return nil
	}
	event.Action = dispatch.FinalAction

	stepNames, err := engine.StepNames(dispatch.Sequence)
	if err != nil {
		return err
	}

	deps := buildDependencies(cfg)
	rc := engine.NewContext(context.Background(), &event, cfg)
	rc.RuleConfig = doc.Config
	rc.Result.RunID = uuid.NewString()
	rc.Result.Remapped = dispatch.Remapped

	// Run without the TUI in CI environments.
	isCI := os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"

	if isCI {
		fmt.Println("[repoflow] Running in CI mode (no TUI)")
		runEngine(nil, deps, rc, dispatch, nil)
		fmt.Println("[repoflow] Run completed")
		return nil
	}

	statusChan := make(chan tui.StepStatusMsg)
	model := tui.NewModel(stepNames, statusChan)
	p := tea.NewProgram(model)

	go func() {
		runEngine(p, deps, rc, dispatch, statusChan)
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// loadConfig resolves the bot configuration, falling back to defaults when
// no file is present.
func loadConfig() *config.Config {
	fetcher := func(ref string) ([]byte, error) {
		org, repo, branch, path, err := config.ParseExtendsRef(ref)
		if err != nil {
			return nil, err
		}
		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			return nil, fmt.Errorf("GITHUB_TOKEN required to fetch remote config %s", ref)
		}
		client := github.NewClient(context.Background(), token)
		return client.GetFileContent(context.Background(), org, repo, path, branch)
	}

	path := cfgFile
	if path == "" {
		path = config.FindConfigPath("")
	}

	if path != "" {
		cfg, err := config.LoadWithInheritance(path, fetcher)
		if err == nil {
			if verbose {
				fmt.Printf("Loaded config from %s\n", path)
			}
			return cfg
		}
		fmt.Printf("Warning: failed to load config from %s: %v. Using defaults.\n", path, err)
	} else if verbose {
		fmt.Println("No configuration file found. Using defaults and environment variables.")
	}

	return config.Default()
}

// buildDependencies wires the external clients available from config and
// environment.
func buildDependencies(cfg *config.Config) *engine.Dependencies {
	deps := &engine.Dependencies{DryRun: dryRun}

	token := cfg.GitHub.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token != "" {
		deps.Repo = github.NewClient(context.Background(), token)
	} else if !dryRun {
		fmt.Println("Warning: no GitHub token in config or GITHUB_TOKEN env var; actions will fail")
	}

	if cfg.OSPO.URL != "" {
		deps.Identity = ospo.NewResolver(cfg.OSPO.URL, cfg.OSPO.Token)
	}

	return deps
}
