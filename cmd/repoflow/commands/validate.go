package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/repoflow/repoflow/internal/core/engine"
	"github.com/repoflow/repoflow/internal/nodes"
)

var validateRulesFile string

// validateCmd lints a rules file without executing anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a rules file",
	Long: `Load a rules file, resolve every remap, and construct every check
and action, reporting authoring mistakes without executing any step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateRulesFile, "rules", "", "Path to rules YAML file (required)")
	validateCmd.MarkFlagRequired("rules")
}

func runValidate() error {
	cfg := loadConfig()

	data, err := os.ReadFile(validateRulesFile)
	if err != nil {
		return fmt.Errorf("reading rules file: %w", err)
	}

	doc, err := engine.LoadDocument(data, cfg.Rules.MinSchemaVersion)
	if err != nil {
		return err
	}

	registry := engine.NewRegistry()
	nodes.RegisterAll(registry)

	// Validation constructs nodes only; no dependencies are needed.
	if err := engine.ValidateDocument(doc, registry, &engine.Dependencies{}); err != nil {
		return err
	}

	fmt.Printf("%s is valid (revision %d, schema-version %d)\n", validateRulesFile, doc.Revision, doc.SchemaVersion)
	if verbose {
		for _, eventType := range doc.EventTypes() {
			fmt.Printf("  handles %s events\n", eventType)
		}
	}
	return nil
}
