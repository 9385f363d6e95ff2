package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the PayGuard MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolAnalyzeMessage = mcp.NewTool("analyze_message",
	mcp.WithDescription(
		"Score a message for payment fraud risk (business email compromise, wire fraud, "+
			"invoice scams). Returns a 0-100 risk score, a LOW/MEDIUM/HIGH level, a "+
			"keyword-based heuristic breakdown, and an AI assessment when available. "+
			"Use this before acting on any payment request received in a message."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The message text to analyze (email body, chat message, etc.)")),
	mcp.WithString("channel",
		mcp.Description("Where the message arrived (e.g. 'email', 'sms', 'slack', 'phone')")),
	mcp.WithString("actor_role",
		mcp.Description("Claimed role of the sender (e.g. 'ceo', 'vendor', 'it-support')")),
	mcp.WithString("amount",
		mcp.Description("Payment amount mentioned in the message, free-form (e.g. '$45,000')")),
)

var ToolEventsSummary = mcp.NewTool("events_summary",
	mcp.WithDescription(
		"Get aggregate statistics for previously scored messages: total event count, "+
			"counts by risk level, and the most recent events. "+
			"Use this to review recent fraud-screening activity."),
)

var ToolServiceHealth = mcp.NewTool("service_health",
	mcp.WithDescription(
		"Check the health of the PayGuard service, including database connectivity "+
			"and whether the AI classifier is configured."),
)
