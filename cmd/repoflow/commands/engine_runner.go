package commands

import (
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/repoflow/repoflow/internal/core/engine"
	"github.com/repoflow/repoflow/internal/nodes"
	"github.com/repoflow/repoflow/internal/tui"
)

// runEngine executes a dispatched sequence and flushes pooled operations,
// reporting step status to the TUI when one is attached.
func runEngine(p *tea.Program, deps *engine.Dependencies, rc *engine.Context, dispatch *engine.Dispatch, statusChan chan tui.StepStatusMsg) {
	if statusChan != nil {
		defer close(statusChan)
	}

	registry := engine.NewRegistry()
	nodes.RegisterAll(registry)

	runner := engine.NewRunner(registry, deps)
	if statusChan != nil {
		runner.Observer = func(step, status, message string) {
			statusChan <- tui.StepStatusMsg{Step: step, Status: status, Message: message}
		}
	}

	if err := runner.Run(rc, dispatch.Sequence); err != nil {
		report(p, false, err.Error())
		return
	}

	if err := rc.Pooled.Flush(rc, deps.Repo, deps.DryRun); err != nil {
		report(p, false, err.Error())
		return
	}

	summary, err := json.MarshalIndent(rc.Result, "", "  ")
	if err != nil {
		summary = []byte(fmt.Sprintf("%+v", rc.Result))
	}
	report(p, true, string(summary))
}

func report(p *tea.Program, success bool, output string) {
	if p != nil {
		p.Send(tui.ResultMsg{Success: success, Output: output})
		return
	}
	fmt.Println(output)
}
