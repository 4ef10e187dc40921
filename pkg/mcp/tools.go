package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/csswind/pkg/emit"
)

const (
	toolConvertCSS   = "convert_css"
	toolExtractPage  = "extract_page"
	toolFormatStyles = "format_styles"
	toolLookupScale  = "lookup_scale"
)

// Scale table names accepted by lookup_scale.
const (
	tableSpacing    = "spacing"
	tableTypeScale  = "type"
	tableColor      = "color"
	tableFontWeight = "font-weight"
	tableDisplay    = "display"
)

func convertCSSTool() mcp.Tool {
	return mcp.NewTool(toolConvertCSS,
		mcp.WithDescription("Convert CSS rules to Tailwind utility classes. Returns per-selector declarations and suggestions, the classes already in the markup, and the classes confirmed by the Tailwind compiler."),
		mcp.WithString("css", mcp.Required(), mcp.Description("Raw CSS text")),
		mcp.WithString("html", mcp.Description("Markup the CSS applies to; scanned for existing classes and used as compiler content")),
		mcp.WithString("markup_kind", mcp.Description("Markup dialect"), mcp.Enum("html", "jsx", "tsx")),
		mcp.WithBoolean("verify", mcp.Description("Confirm suggestions with the Tailwind compiler (default true)")),
	)
}

func extractPageTool() mcp.Tool {
	return mcp.NewTool(toolExtractPage,
		mcp.WithDescription("Load a live page in a headless browser and convert the styles of the selected element to Tailwind classes."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Absolute http(s) URL")),
		mcp.WithString("selector", mcp.Description("CSS selector of the element to capture; defaults to <body>")),
		mcp.WithBoolean("verify", mcp.Description("Confirm suggestions with the Tailwind compiler (default true)")),
	)
}

func formatStylesTool() mcp.Tool {
	return mcp.NewTool(toolFormatStyles,
		mcp.WithDescription("Render a style string as CSS, JSON, or a component scaffold for a framework."),
		mcp.WithString("styles", mcp.Required(), mcp.Description("Declarations such as \"color: black; margin: 4px\"")),
		mcp.WithString("format", mcp.Description("Output format (default css)"), mcp.Enum(emit.Formats()...)),
		mcp.WithString("name", mcp.Description("Component name used for the class and identifier")),
	)
}

func lookupScaleTool() mcp.Tool {
	return mcp.NewTool(toolLookupScale,
		mcp.WithDescription("List the entries of a Tailwind scale table used for exact matches; omit table to get all of them."),
		mcp.WithString("table", mcp.Description("Scale table"),
			mcp.Enum(tableSpacing, tableTypeScale, tableColor, tableFontWeight, tableDisplay)),
	)
}
