// Package webhook is the HTTP transport: it validates GitHub deliveries,
// loads the target repository's rules file, and hands the normalized event
// to the rule engine.
package webhook

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/repoflow/repoflow/internal/core/config"
	"github.com/repoflow/repoflow/internal/core/engine"
	ghclient "github.com/repoflow/repoflow/internal/integrations/github"
)

// RulesLoader fetches the raw rules file for a repository.
type RulesLoader interface {
	GetFileContent(ctx context.Context, org, repo, path, ref string) ([]byte, error)
}

// Server handles webhook deliveries.
type Server struct {
	cfg      *config.Config
	rules    RulesLoader
	registry *engine.Registry
	deps     *engine.Dependencies
}

// New creates a webhook server. client serves both as the rules loader and,
// through deps, as the repository client the engine's actions call.
func New(cfg *config.Config, client *ghclient.Client, registry *engine.Registry, deps *engine.Dependencies) *Server {
	return &Server{cfg: cfg, rules: client, registry: registry, deps: deps}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/webhook", s.handleWebhook)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleWebhook runs one delivery end to end. Status codes map the error
// taxonomy: 400 bad signature/payload, 422 rule configuration error, 204
// delivery the rules do not handle, 502 external collaborator failure.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	event, delivery, err := ghclient.ParseWebhook(r, []byte(s.cfg.Server.WebhookSecret))
	if err != nil {
		log.Printf("[webhook] rejected delivery: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if delivery == "" {
		delivery = uuid.NewString()
	}
	if event == nil {
		log.Printf("[webhook] delivery %s: unhandled event type, ignoring", delivery)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	log.Printf("[webhook] delivery %s: %s.%s on %s/%s#%d",
		delivery, event.Type, event.Action, event.Org, event.Repo, event.Number)

	result, err := s.process(r, event, delivery)
	if err != nil {
		if engine.IsConfiguration(err) {
			log.Printf("[webhook] delivery %s: %v", delivery, err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		log.Printf("[webhook] delivery %s failed: %v", delivery, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("[webhook] delivery %s: failed to write response: %v", delivery, err)
	}
}

// process dispatches and runs the rule sequence for one event. A nil
// result with a nil error means the delivery was unmapped or ignored.
func (s *Server) process(r *http.Request, event *engine.Event, delivery string) (*engine.Result, error) {
	ctx := r.Context()

	// Deliveries triggered by bots are dropped before any rules load;
	// otherwise the bot's own comments and label changes re-trigger it.
	if author := triggerAuthor(event); isBotAuthor(author, s.cfg.BotUsers) {
		log.Printf("[webhook] delivery %s: triggered by bot %q, ignoring", delivery, author)
		return nil, nil
	}

	data, err := s.rules.GetFileContent(ctx, event.Org, event.Repo, s.cfg.Rules.Path, "")
	if err != nil {
		return nil, err
	}

	doc, err := engine.LoadDocument(data, s.cfg.Rules.MinSchemaVersion)
	if err != nil {
		return nil, err
	}

	dispatch, err := doc.Resolve(event.Type, event.Action)
	if err != nil {
		return nil, err
	}
	if dispatch.Unmapped {
		log.Printf("[webhook] delivery %s: no rules for %s.%s", delivery, event.Type, event.Action)
		return nil, nil
	}

	// The final action is fixed before any node executes.
	event.Action = dispatch.FinalAction

	rc := engine.NewContext(ctx, event, s.cfg)
	rc.RuleConfig = doc.Config
	rc.Result.RunID = delivery
	rc.Result.FinalAction = dispatch.FinalAction
	rc.Result.Remapped = dispatch.Remapped

	runner := engine.NewRunner(s.registry, s.deps)
	if err := runner.Run(rc, dispatch.Sequence); err != nil {
		return nil, err
	}

	if err := rc.Pooled.Flush(rc, s.deps.Repo, s.deps.DryRun); err != nil {
		return nil, err
	}
	return rc.Result, nil
}
