package markup

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/csswind/pkg/parser"
)

func (e *Extractor) jsxClasses(source []byte, lang parser.Language) []string {
	set := newClassSet()

	tree, err := e.parsers.Parse(source, lang)
	if err != nil {
		e.log.Debug("markup parse failed", "language", lang.String(), "error", err)
		return set.list
	}
	defer tree.Close()

	walkAttributes(tree.RootNode(), source, set)
	return set.list
}

// walkAttributes visits every jsx_attribute named className or class.
// Only literal values are read: "a b", {"a b"} and {`a b`} without
// substitutions.
func walkAttributes(node *ts.Node, source []byte, set *classSet) {
	if node.Kind() == "jsx_attribute" {
		name, value, ok := literalAttribute(node, source)
		if ok && (name == "className" || name == "class") {
			set.addList(value)
		}
		return
	}

	for i := uint(0); i < uint(node.ChildCount()); i++ {
		walkAttributes(node.Child(i), source, set)
	}
}

func literalAttribute(node *ts.Node, source []byte) (string, string, bool) {
	var name string
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_identifier":
			name = child.Utf8Text(source)
		case "string":
			return name, stringContent(child, source), true
		case "jsx_expression":
			for j := uint(0); j < uint(child.NamedChildCount()); j++ {
				expr := child.NamedChild(j)
				switch expr.Kind() {
				case "string":
					return name, stringContent(expr, source), true
				case "template_string":
					if !hasSubstitution(expr) {
						return name, stringContent(expr, source), true
					}
				}
			}
			return name, "", false
		}
	}
	return name, "", false
}

// stringContent returns the text of a string node without its quotes.
func stringContent(node *ts.Node, source []byte) string {
	text := node.Utf8Text(source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func hasSubstitution(node *ts.Node) bool {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if node.Child(i).Kind() == "template_substitution" {
			return true
		}
	}
	return false
}
