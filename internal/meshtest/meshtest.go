// Package meshtest runs txtar-encoded scenario scripts against an
// in-process orchestrator. Each script builds providers and clients,
// wires them together, and asserts on the textual wire shape of the
// responses.
package meshtest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentmesh/mesh"
	"golang.org/x/tools/txtar"
	"rsc.io/script"
)

// State tracks the agents a scenario script has created so far.
type State struct {
	orch      *mesh.Orchestrator
	providers map[string]*mesh.Provider
	clients   map[string]*mesh.Client
}

// NewState creates an empty scenario state.
func NewState() *State {
	return &State{
		orch:      mesh.NewOrchestrator(),
		providers: make(map[string]*mesh.Provider),
		clients:   make(map[string]*mesh.Client),
	}
}

// RunFile executes the script in the comment section of a txtar file.
// Any file sections are extracted into the script's work directory
// first. Progress and command output go to output.
func RunFile(ctx context.Context, filename string, output io.Writer) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading file: %v", err)
	}

	eng := script.NewEngine()
	st := NewState()
	for name, cmd := range Commands(st) {
		eng.Cmds[name] = cmd
	}
	for name, cmd := range script.DefaultCmds() {
		eng.Cmds[name] = cmd
	}

	workdir, err := os.MkdirTemp("", "meshtest")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workdir)

	s, err := script.NewState(ctx, workdir, os.Environ())
	if err != nil {
		return err
	}
	if err := s.Setenv("WORK", s.Getwd()); err != nil {
		return err
	}

	a, err := txtar.ParseFile(filename)
	if err != nil {
		return err
	}
	if err := s.ExtractFiles(a); err != nil {
		return err
	}

	return eng.Execute(s, filename, bufio.NewReader(bytes.NewReader(content)), output)
}

// Commands returns the scenario-specific script commands.
func Commands(st *State) map[string]script.Cmd {
	return map[string]script.Cmd{
		"provider": script.Command(script.CmdUsage{
			Summary: "create and register a provider with the named built-in tools",
			Args:    "name [tool...]",
		}, st.cmdProvider),
		"client": script.Command(script.CmdUsage{
			Summary: "create and register a client",
			Args:    "name",
		}, st.cmdClient),
		"connect": script.Command(script.CmdUsage{
			Summary: "connect a registered client to a registered provider",
			Args:    "client provider",
		}, st.cmdConnect),
		"call": script.Command(script.CmdUsage{
			Summary: "invoke a tool through a client; prints the wire-shaped response",
			Args:    "client tool args-json",
		}, st.cmdCall),
		"read": script.Command(script.CmdUsage{
			Summary: "read a resource through a client; prints the wire-shaped response",
			Args:    "client uri",
		}, st.cmdRead),
	}
}

func (st *State) cmdProvider(s *script.State, args ...string) (script.WaitFunc, error) {
	if len(args) < 1 {
		return nil, script.ErrUsage
	}
	name := args[0]

	var tools []mesh.StaticTool
	for _, toolName := range args[1:] {
		tool, ok := builtinTool(toolName)
		if !ok {
			return nil, fmt.Errorf("unknown built-in tool: %s", toolName)
		}
		tools = append(tools, tool)
	}

	p := mesh.NewProvider(name, "1.0.0",
		mesh.WithTools(tools...),
		mesh.WithResources(mesh.UsersResource()),
	)
	if err := st.orch.RegisterProvider(s.Context(), name, p); err != nil {
		return nil, err
	}
	st.providers[name] = p

	return stdoutf("registered provider %s\n", name), nil
}

func (st *State) cmdClient(s *script.State, args ...string) (script.WaitFunc, error) {
	if len(args) != 1 {
		return nil, script.ErrUsage
	}
	name := args[0]

	c := mesh.NewClient(name)
	if err := st.orch.RegisterClient(name, c); err != nil {
		return nil, err
	}
	st.clients[name] = c

	return stdoutf("registered client %s\n", name), nil
}

func (st *State) cmdConnect(s *script.State, args ...string) (script.WaitFunc, error) {
	if len(args) != 2 {
		return nil, script.ErrUsage
	}
	if !st.orch.ConnectAgents(s.Context(), args[0], args[1]) {
		return nil, fmt.Errorf("cannot connect %s to %s", args[0], args[1])
	}
	return stdoutf("connected %s to %s\n", args[0], args[1]), nil
}

func (st *State) cmdCall(s *script.State, args ...string) (script.WaitFunc, error) {
	if len(args) != 3 {
		return nil, script.ErrUsage
	}
	c, ok := st.clients[args[0]]
	if !ok {
		return nil, fmt.Errorf("unknown client: %s", args[0])
	}

	resp := c.CallTool(s.Context(), args[1], json.RawMessage(args[2]))
	return stdoutResponse(resp)
}

func (st *State) cmdRead(s *script.State, args ...string) (script.WaitFunc, error) {
	if len(args) != 2 {
		return nil, script.ErrUsage
	}
	c, ok := st.clients[args[0]]
	if !ok {
		return nil, fmt.Errorf("unknown client: %s", args[0])
	}

	resp := c.ReadResource(s.Context(), args[1])
	return stdoutResponse(resp)
}

func builtinTool(name string) (mesh.StaticTool, bool) {
	switch name {
	case "calculator":
		return mesh.CalculatorTool(), true
	case "text_processor":
		return mesh.TextProcessorTool(), true
	}
	return mesh.StaticTool{}, false
}

// stdoutResponse renders a response in the wire shape, so scripts can
// assert against the literal contract with the stdout command.
func stdoutResponse(resp mesh.Response) (script.WaitFunc, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %v", err)
	}
	return stdoutf("%s\n", b), nil
}

func stdoutf(format string, a ...any) script.WaitFunc {
	out := fmt.Sprintf(format, a...)
	return func(*script.State) (string, string, error) {
		return out, "", nil
	}
}

// FindScenarios globs scenario files under dir.
func FindScenarios(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*.txtar"))
}
