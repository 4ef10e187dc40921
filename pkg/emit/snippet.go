package emit

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"text/template"
	"unicode"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gnana997/csswind/pkg/cssmodel"
)

const (
	TargetReact  = "react"
	TargetVue    = "vue"
	TargetSvelte = "svelte"
	TargetHTML   = "html"
)

// Targets lists the framework targets in display order.
func Targets() []string {
	return []string{TargetReact, TargetVue, TargetSvelte, TargetHTML}
}

const defaultComponent = "Component"

const snippetTemplates = `
{{- define "rule" -}}
.{{ .ClassName }} {{ "{" }}
{{- range .Declarations }}
  {{ .String }};
{{- end }}
}
{{- end -}}

{{- define "react" -}}
const styles = {
{{- range .Declarations }}
  {{ camel .Property }}: {{ quote .Value }},
{{- end }}
};

export default function {{ .Component }}({ children }) {
  return (
    <div className="{{ .ClassName }}" style={styles}>
      {children}
    </div>
  );
}
{{ end -}}

{{- define "vue" -}}
<template>
  <div class="{{ .ClassName }}">
    <slot />
  </div>
</template>

<script setup>
defineOptions({ name: {{ quote .Component }} });
</script>

<style scoped>
{{ template "rule" . }}
</style>
{{ end -}}

{{- define "svelte" -}}
<div class="{{ .ClassName }}">
  <slot />
</div>

<style>
{{ template "rule" . }}
</style>
{{ end -}}

{{- define "html" -}}
<style>
{{ template "rule" . }}
</style>
<div class="{{ .ClassName }}"></div>
{{ end -}}
`

var snippets = template.Must(template.New("snippets").
	Funcs(sprig.FuncMap()).
	Funcs(template.FuncMap{"camel": camelProperty}).
	Parse(snippetTemplates))

type snippetData struct {
	Component    string
	ClassName    string
	Declarations []cssmodel.Declaration
}

// ToFrameworkSnippet renders a component scaffold for target that applies
// styles. Unknown targets return ErrUnsupportedTarget.
func ToFrameworkSnippet(target, name, styles string) (string, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if !slices.Contains(Targets(), target) {
		return "", fmt.Errorf("%w: %q (want one of %s)",
			ErrUnsupportedTarget, target, strings.Join(Formats(), ", "))
	}

	data := snippetData{
		Component:    ComponentName(name),
		ClassName:    ClassName(name),
		Declarations: parseStyles(styles),
	}

	var buf bytes.Buffer
	if err := snippets.ExecuteTemplate(&buf, target, data); err != nil {
		return "", fmt.Errorf("failed to render %s snippet: %w", target, err)
	}
	return buf.String(), nil
}

// ClassName derives a CSS class from a free-form name, e.g.
// "Primary Button" becomes "primary-button".
func ClassName(name string) string {
	s := slug.Make(name)
	if s == "" {
		return strings.ToLower(defaultComponent)
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "c-" + s
	}
	return s
}

// ComponentName derives a PascalCase identifier from a free-form name.
func ComponentName(name string) string {
	parts := strings.FieldsFunc(slug.Make(name), func(r rune) bool {
		return r == '-' || r == '_'
	})
	title := cases.Title(language.English)

	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(title.String(p))
	}
	s := sb.String()
	if s == "" {
		return defaultComponent
	}
	if unicode.IsDigit(rune(s[0])) {
		s = "C" + s
	}
	return s
}

// camelProperty converts a CSS property to its JS style-object key:
// "background-color" to "backgroundColor", "-webkit-mask" to "WebkitMask".
func camelProperty(property string) string {
	parts := strings.Split(strings.ToLower(property), "-")
	var sb strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			sb.WriteString(p)
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return sb.String()
}
