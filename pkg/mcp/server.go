// Package mcp exposes the converter as MCP tools over stdio.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/csswind/pkg/extract"
	"github.com/gnana997/csswind/pkg/mcplog"
)

const serverName = "csswind"

// Version is reported to MCP clients; set at build time by the CLI.
var Version = "0.1.0-dev"

// Server implements the MCP server.
type Server struct {
	mcpServer *server.MCPServer
	extractor *extract.Extractor
	logger    *mcplog.Logger // nil disables call logging
	log       *slog.Logger
}

// NewServer creates a server backed by ex. callLog may be nil.
func NewServer(ex *extract.Extractor, callLog *mcplog.Logger, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{extractor: ex, logger: callLog, log: log}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer(serverName, Version, opts...)
	s.mcpServer.AddTools(s.tools()...)

	return s
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: convertCSSTool(), Handler: s.handleConvertCSS},
		{Tool: extractPageTool(), Handler: s.handleExtractPage},
		{Tool: formatStylesTool(), Handler: s.handleFormatStyles},
		{Tool: lookupScaleTool(), Handler: s.handleLookupScale},
	}
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("serving MCP over stdio", "version", Version)
	return server.ServeStdio(s.mcpServer)
}
