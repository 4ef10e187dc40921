package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/csswind/pkg/capture"
	"github.com/gnana997/csswind/pkg/emit"
	"github.com/gnana997/csswind/pkg/extract"
	"github.com/gnana997/csswind/pkg/markup"
	"github.com/gnana997/csswind/pkg/scale"
)

func (s *Server) handleConvertCSS(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	css, err := req.RequireString("css")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, err := markup.ParseKind(req.GetString("markup_kind", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	b := s.extractor.Extract(ctx, extract.Input{
		Markup:     req.GetString("html", ""),
		MarkupKind: kind,
		CSS:        css,
		SkipVerify: !req.GetBool("verify", true),
	})
	return wireResult(b)
}

func (s *Server) handleExtractPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := capture.ValidateURL(url); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	b, err := s.extractor.ExtractURL(ctx, url, req.GetString("selector", ""), !req.GetBool("verify", true))
	if err != nil {
		s.log.Warn("page extraction failed", "url", url, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("extract_page: %v", err)), nil
	}
	return wireResult(b)
}

func (s *Server) handleFormatStyles(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	styles, err := req.RequireString("styles")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := emit.Format(req.GetString("format", emit.FormatCSS), req.GetString("name", ""), styles)
	if errors.Is(err, emit.ErrUnsupportedTarget) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(out), nil
}

// scaleEntry is the JSON shape of one table row.
type scaleEntry struct {
	Key   string `json:"key"`
	Token string `json:"token"`
}

func (s *Server) handleLookupScale(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tables := map[string][]scaleEntry{
		tableSpacing:    intEntries(scale.Spacing().Entries(), "px"),
		tableTypeScale:  intEntries(scale.TypeScale().Entries(), "px"),
		tableColor:      stringEntries(scale.Colors().Entries()),
		tableFontWeight: stringEntries(scale.FontWeights().Entries()),
		tableDisplay:    stringEntries(scale.Displays().Entries()),
	}

	name := req.GetString("table", "")
	if name == "" {
		return jsonResult(tables)
	}
	entries, ok := tables[name]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown table %q", name)), nil
	}
	return jsonResult(entries)
}

func intEntries(entries []scale.Entry[int], unit string) []scaleEntry {
	out := make([]scaleEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, scaleEntry{Key: strconv.Itoa(e.Key) + unit, Token: e.Token})
	}
	return out
}

func stringEntries(entries []scale.Entry[string]) []scaleEntry {
	out := make([]scaleEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, scaleEntry{Key: e.Key, Token: e.Token})
	}
	return out
}

func wireResult(b *extract.Bundle) (*mcp.CallToolResult, error) {
	out, err := emit.ToJSON(b.Wire())
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(out), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
