// Package mcplog writes one JSONL line per MCP tool call.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// LogEntry is the schema for one JSONL line.
type LogEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	// ToolError is set when the handler returned an error result
	// (invalid arguments, capture failure).
	ToolError bool `json:"tool_error"`
	// VerifyCode carries the verification error code embedded in a
	// conversion result, e.g. TAILWIND_PROCESSING_ERROR.
	VerifyCode string  `json:"verify_code,omitempty"`
	Error      *string `json:"error"`
}

// Logger appends entries to a file. It is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewLogger opens path for appending, creating parent directories.
// An empty path returns nil, nil; callers treat a nil Logger as disabled.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends one entry.
func (l *Logger) Write(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// Call is an in-flight tool call, started by Begin and written by End.
type Call struct {
	l      *Logger
	tool   string
	params map[string]any
	start  time.Time
}

// Begin records the start of a tool call. Arguments are sanitised now so
// handlers may mutate them afterwards.
func (l *Logger) Begin(tool string, args map[string]any) *Call {
	return &Call{l: l, tool: tool, params: SanitizeParams(args), start: Now()}
}

// End writes the entry for the finished call. The write error is dropped
// so logging never changes a tool result.
func (c *Call) End(result *mcp.CallToolResult, err error) {
	entry := LogEntry{
		Ts:            c.start.UTC().Format(time.RFC3339),
		Tool:          c.tool,
		Params:        c.params,
		DurationMs:    Now().Sub(c.start).Milliseconds(),
		ResponseBytes: ResponseBytes(result),
		ToolError:     result != nil && result.IsError,
		VerifyCode:    VerifyCode(result),
	}
	if err != nil {
		msg := err.Error()
		entry.Error = &msg
	}
	_ = c.l.Write(entry)
}

// payloadKeys are tool arguments that carry whole documents. They are
// always logged by size only.
var payloadKeys = map[string]bool{
	"css":    true,
	"html":   true,
	"styles": true,
}

// shortStringMax is the longest other string parameter logged verbatim.
const shortStringMax = 64

// SanitizeParams returns a copy of args safe for logging. Stylesheets,
// markup and long strings are replaced by a "{key}_len" entry.
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		s, ok := v.(string)
		if ok && (payloadKeys[k] || len(s) > shortStringMax) {
			out[k+"_len"] = len(s)
			continue
		}
		out[k] = v
	}
	return out
}

// ResponseBytes returns the serialized size of a result's content, or 0.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// VerifyCode returns error.code from a JSON text result, or "" when the
// result is not a conversion record or carries no error.
func VerifyCode(result *mcp.CallToolResult) string {
	if result == nil || result.IsError {
		return ""
	}
	for _, c := range result.Content {
		text, ok := c.(mcp.TextContent)
		if !ok {
			continue
		}
		var rec struct {
			Error *struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if json.Unmarshal([]byte(text.Text), &rec) == nil && rec.Error != nil {
			return rec.Error.Code
		}
	}
	return ""
}

// Now is a replaceable clock for testing.
var Now = func() time.Time { return time.Now() }
