package parser

import (
	"path/filepath"
	"strings"
)

// Language is a markup grammar the ParserManager can parse.
type Language int

const (
	// LanguageJSX is JavaScript with JSX (.jsx, .js).
	LanguageJSX Language = iota
	// LanguageTSX is TypeScript with JSX (.tsx, .ts).
	LanguageTSX
	// LanguageUnknown represents an unsupported grammar.
	LanguageUnknown
)

func (l Language) String() string {
	switch l {
	case LanguageJSX:
		return "jsx"
	case LanguageTSX:
		return "tsx"
	default:
		return "unknown"
	}
}

// DetectLanguage picks a grammar from a file extension.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".jsx", ".js", ".mjs", ".cjs":
		return LanguageJSX
	case ".tsx", ".ts", ".mts", ".cts":
		return LanguageTSX
	default:
		return LanguageUnknown
	}
}

// ParseLanguageString converts a user-supplied name to a Language.
func ParseLanguageString(lang string) Language {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "jsx", "javascript", "js":
		return LanguageJSX
	case "tsx", "typescript", "ts":
		return LanguageTSX
	default:
		return LanguageUnknown
	}
}
