package cmd

import (
	"log/slog"
	"net/http"
	"os"

	openaiclient "github.com/graphline/graphline/pkg/clients/openai"
	"github.com/graphline/graphline/pkg/nodes/condition"
	"github.com/graphline/graphline/pkg/nodes/llm"
	"github.com/graphline/graphline/pkg/nodes/output"
	"github.com/graphline/graphline/pkg/nodes/tool"
	"github.com/graphline/graphline/pkg/nodes/trigger"
	"github.com/graphline/graphline/pkg/nodes/vectorstore"
	"github.com/graphline/graphline/pkg/persistence"
	"github.com/graphline/graphline/pkg/persistence/postgresql"
	"github.com/graphline/graphline/pkg/protocol"
	"github.com/graphline/graphline/pkg/registry"
)

const defaultCompletionModel = "gpt-4o-mini"

// Clients bundles the external services node executors depend on. Nil
// fields are allowed; nodes report a configuration error at execution
// time instead of startup.
type Clients struct {
	LLM      protocol.LLMClient
	Embedder protocol.Embedder
	Searcher protocol.DocumentSearcher
	Runner   protocol.SQLRunner
}

// NewClients wires external services from the environment and the chosen
// persistence backend. The OpenAI client is only built when an API key is
// present, and document search plus the SQL runner require PostgreSQL.
func NewClients(logger *slog.Logger, store persistence.Persistence) Clients {
	var clients Clients

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		client, err := openaiclient.NewClient(apiKey, os.Getenv("OPENAI_BASE_URL"))
		if err != nil {
			logger.Warn("failed to initialize openai client", "error", err)
		} else {
			clients.LLM = client
			clients.Embedder = client
		}
	}

	if pg, ok := store.(*postgresql.Persistence); ok {
		clients.Searcher = postgresql.NewDocumentSearcher(pg.DB(), logger)
		clients.Runner = postgresql.NewSQLRunner(pg.DB(), logger)
	}

	return clients
}

// NewRegistry builds a registry with every native node type registered.
func NewRegistry(logger *slog.Logger, clients Clients, defaultModel string) *registry.Registry {
	if defaultModel == "" {
		defaultModel = defaultCompletionModel
	}

	reg := registry.NewRegistry(logger)
	reg.Register(trigger.NewFactory())
	reg.Register(llm.NewFactory(clients.LLM, defaultModel))
	reg.Register(vectorstore.NewFactory(clients.Embedder, clients.Searcher))
	reg.Register(condition.NewFactory())
	reg.Register(tool.NewFactory(http.DefaultClient, clients.Runner))
	reg.Register(output.NewFactory())

	return reg
}
