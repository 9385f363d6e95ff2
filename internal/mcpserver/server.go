package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all PayGuard tools registered.
func NewMCPServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer("payguard", "0.1.0")
	client := NewPayGuardClient(cfg)
	h := NewHandlers(client)

	s.AddTool(ToolAnalyzeMessage, h.HandleAnalyzeMessage)
	s.AddTool(ToolEventsSummary, h.HandleEventsSummary)
	s.AddTool(ToolServiceHealth, h.HandleServiceHealth)

	return s
}
