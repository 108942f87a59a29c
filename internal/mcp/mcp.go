// Package mcp provides the provebench MCP server, registering the
// prover tools and publishing model instructions.
package mcp

import (
	_ "embed"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/provelab/provebench"
	"github.com/provelab/provebench/internal/bench"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	engine *bench.Engine
}

// NewServer creates an MCP server with all provebench tools registered.
func NewServer(engine *bench.Engine) *mcp.Server {
	h := &handler{engine: engine}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "provebench", Version: provebench.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "prove_run",
		Description: `Run the Vampire prover on a TPTP problem file and classify the outcome.

Returns the verdict (true/false/unknown, TIMEOUT, ERROR, or an informational
string), the SZS status, and the exact command line used. Requires Vampire
on the PATH.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "prove_classify",
		Description: `Classify an existing Vampire output transcript into a verdict.

Pure text analysis: works without Vampire installed. Provide the captured
output and, when the process failed, its exit code or terminating signal.`,
	}, h.classifyHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "prove_cmdline",
		Description: `Compose the Vampire command line for a problem file and resource limits
without executing it.`,
	}, h.cmdlineHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "prove_version",
		Description: "Report the provebench version and the installed Vampire version.",
	}, h.versionHandler)

	return s
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
