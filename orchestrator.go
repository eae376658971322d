package mesh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Contract-violation errors surfaced by the orchestrator. These are
// programmer errors in the workflow script, distinct from the protocol
// failures that travel inside Response values.
var (
	ErrAgentNotFound    = errors.New("agent not found")
	ErrWrongAgentKind   = errors.New("wrong agent kind")
	ErrDuplicateAgent   = errors.New("agent already registered")
	ErrUnknownOperation = errors.New("unknown workflow operation")
)

// AgentKind discriminates registry entries.
type AgentKind string

const (
	AgentKindProvider AgentKind = "provider"
	AgentKindClient   AgentKind = "client"
)

// StepOp selects the client operation a workflow step performs.
type StepOp string

const (
	StepCallTool     StepOp = "tools/call"
	StepReadResource StepOp = "resources/read"
)

// Step is one scripted operation: which client agent acts, what it does,
// and with what inputs. Tool and Args apply to StepCallTool; URI applies
// to StepReadResource.
type Step struct {
	Agent string
	Op    StepOp
	Tool  string
	Args  any
	URI   string
}

// StepResult pairs a step with the response it produced.
type StepResult struct {
	Agent    string
	Op       StepOp
	Response Response
}

// agentEntry is one registry slot. Provider entries carry a capability
// snapshot taken at registration time; the snapshot may go stale if the
// provider's registry changes later, and that is accepted.
type agentEntry struct {
	kind      AgentKind
	server    ServerAgent
	client    *Client
	tools     []Tool
	resources []Resource
}

// Orchestrator composes named agents and drives scripted multi-party
// call sequences. Neither providers nor clients know they are being
// orchestrated; the orchestrator only ever uses their public surface.
type Orchestrator struct {
	mu     sync.RWMutex
	agents map[string]*agentEntry

	log    logrus.FieldLogger
	events *Events
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithLogger directs orchestration narration to the given logger. The
// default discards everything; logging is observability, never control
// flow.
func WithLogger(log logrus.FieldLogger) OrchestratorOption {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithOrchestratorEvents wires an event dispatcher for agent lifecycle
// observations.
func WithOrchestratorEvents(e *Events) OrchestratorOption {
	return func(o *Orchestrator) { o.events = e }
}

// NewOrchestrator creates an empty agent registry.
func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	o := &Orchestrator{
		agents: make(map[string]*agentEntry),
		log:    logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RegisterProvider adds a provider-kind agent under name and snapshots
// its current tool and resource catalog. Duplicate names are rejected.
func (o *Orchestrator) RegisterProvider(ctx context.Context, name string, server ServerAgent) error {
	if server == nil {
		return fmt.Errorf("register %q: nil server agent", name)
	}

	entry := &agentEntry{kind: AgentKindProvider, server: server}
	entry.tools = server.Dispatch(ctx, NewListToolsRequest()).Tools
	entry.resources = server.Dispatch(ctx, NewListResourcesRequest()).Resources

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.agents[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateAgent)
	}
	o.agents[name] = entry

	o.log.WithFields(logrus.Fields{
		"agent":     name,
		"kind":      AgentKindProvider,
		"server":    agentName(server),
		"tools":     len(entry.tools),
		"resources": len(entry.resources),
	}).Info("registered agent")
	o.events.EmitAgentRegistered(name, AgentKindProvider)
	return nil
}

// RegisterClient adds a client-kind agent under name. Duplicate names
// are rejected.
func (o *Orchestrator) RegisterClient(name string, client *Client) error {
	if client == nil {
		return fmt.Errorf("register %q: nil client", name)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.agents[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateAgent)
	}
	o.agents[name] = &agentEntry{kind: AgentKindClient, client: client}

	o.log.WithFields(logrus.Fields{
		"agent": name,
		"kind":  AgentKindClient,
	}).Info("registered agent")
	o.events.EmitAgentRegistered(name, AgentKindClient)
	return nil
}

// AgentKind reports the kind of a registered agent.
func (o *Orchestrator) AgentKind(name string) (AgentKind, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	entry, ok := o.agents[name]
	if !ok {
		return "", false
	}
	return entry.kind, true
}

// ProviderCapabilities returns the capability snapshot taken when the
// named provider was registered.
func (o *Orchestrator) ProviderCapabilities(name string) (tools []Tool, resources []Resource, ok bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	entry, exists := o.agents[name]
	if !exists || entry.kind != AgentKindProvider {
		return nil, nil, false
	}
	tools = append(tools, entry.tools...)
	resources = append(resources, entry.resources...)
	return tools, resources, true
}

// ConnectAgents connects the named client to the named provider. It
// reports false, mutating nothing, when either name is missing or the
// kinds do not line up.
func (o *Orchestrator) ConnectAgents(ctx context.Context, clientName, serverName string) bool {
	o.mu.RLock()
	clientEntry, clientOK := o.agents[clientName]
	serverEntry, serverOK := o.agents[serverName]
	o.mu.RUnlock()

	if !clientOK || !serverOK {
		o.log.WithFields(logrus.Fields{
			"client": clientName,
			"server": serverName,
		}).Warn("cannot connect: agents not found")
		return false
	}
	if clientEntry.kind != AgentKindClient || serverEntry.kind != AgentKindProvider {
		o.log.WithFields(logrus.Fields{
			"client": clientName,
			"server": serverName,
		}).Warn("cannot connect: wrong agent kinds")
		return false
	}

	if err := clientEntry.client.Connect(ctx, serverEntry.server); err != nil {
		o.log.WithError(err).Warn("connect failed")
		return false
	}

	o.log.WithFields(logrus.Fields{
		"client":     clientName,
		"server":     serverName,
		"connection": clientEntry.client.ConnectionID(),
	}).Info("connected agents")
	o.events.EmitAgentsConnected(clientName, serverName)
	return true
}

// ExecuteWorkflow runs the steps strictly in order on the calling
// goroutine. Each step's response is collected verbatim; a protocol
// failure inside a response does not stop the workflow. A step that
// names a missing or wrong-kind agent is a contract violation and
// aborts with a wrapped ErrAgentNotFound or ErrWrongAgentKind.
func (o *Orchestrator) ExecuteWorkflow(ctx context.Context, steps []Step) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))

	for i, step := range steps {
		o.mu.RLock()
		entry, ok := o.agents[step.Agent]
		o.mu.RUnlock()

		if !ok {
			return results, fmt.Errorf("step %d: agent %q: %w", i, step.Agent, ErrAgentNotFound)
		}
		if entry.kind != AgentKindClient {
			return results, fmt.Errorf("step %d: agent %q is a %s: %w", i, step.Agent, entry.kind, ErrWrongAgentKind)
		}

		var resp Response
		switch step.Op {
		case StepCallTool:
			resp = entry.client.CallTool(ctx, step.Tool, step.Args)
		case StepReadResource:
			resp = entry.client.ReadResource(ctx, step.URI)
		default:
			return results, fmt.Errorf("step %d: %q: %w", i, step.Op, ErrUnknownOperation)
		}

		o.log.WithFields(logrus.Fields{
			"step":  i,
			"agent": step.Agent,
			"op":    step.Op,
			"error": resp.Err,
		}).Info("executed step")

		results = append(results, StepResult{
			Agent:    step.Agent,
			Op:       step.Op,
			Response: resp,
		})
	}

	return results, nil
}
