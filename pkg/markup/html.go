package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLClasses returns the distinct names from every class attribute.
func HTMLClasses(source string) []string {
	set := newClassSet()

	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return set.list
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Namespace == "" && strings.EqualFold(a.Key, "class") {
					set.addList(a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return set.list
}
