// Package i18n renders localized error messages from the shared message
// bundle.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/skirmish/internal/platform/i18n/catalog"
)

// Code is a machine-readable error code. It mirrors errors.Code, which
// imports this package.
type Code = string

const namespace = "errors"

// Catalog holds the parsed error templates of one locale.
type Catalog struct {
	locale   string
	messages map[Code]message
}

type message struct {
	source string
	// tmpl is nil when source failed to parse.
	tmpl *template.Template
}

// catalogs caches catalogs by requested and resolved locale.
var catalogs sync.Map

// GetCatalog returns the catalog negotiated for locale, falling back to the
// base locale.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}
	if c, ok := catalogs.Load(requested); ok {
		return c.(*Catalog)
	}

	bundle := i18ncatalog.Default()
	resolved, messages := bundle.NamespaceMessagesWithFallback(bundle.Match(requested), namespace)
	c, _ := catalogs.LoadOrStore(resolved, NewCatalog(resolved, messages))
	if requested != resolved {
		c, _ = catalogs.LoadOrStore(requested, c)
	}
	return c.(*Catalog)
}

// RegisterCatalog installs cat for locale, replacing any cached catalog.
// Intended for tests.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogs.Store(locale, cat)
}

// NewCatalog parses messages as text/template sources keyed by code.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	c := &Catalog{locale: locale, messages: make(map[Code]message, len(messages))}
	for code, source := range messages {
		m := message{source: source}
		if t, err := template.New(code).Option("missingkey=zero").Parse(source); err == nil {
			m.tmpl = t
		}
		c.messages[code] = m
	}
	return c
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the template for code with metadata. Unknown codes render
// as the code itself; missing metadata renders empty. A template that fails
// to parse or execute renders as its source.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	m, ok := c.messages[code]
	if !ok {
		return code
	}
	if m.tmpl == nil {
		return m.source
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var b strings.Builder
	if err := m.tmpl.Execute(&b, metadata); err != nil {
		return m.source
	}
	return b.String()
}
