package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// loggingMiddleware writes one call-log line per tool call. Only installed
// when the server has a call logger.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			call := s.logger.Begin(req.Params.Name, req.GetArguments())
			result, err := next(ctx, req)
			call.End(result, err)
			return result, err
		}
	}
}
