// Package i18n resolves error codes to localized, templated messages.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/leaguepool/internal/platform/i18n/catalog"
)

// Code is a machine-readable error code. It aliases string rather than the
// errors package type to avoid an import cycle.
type Code = string

// Catalog maps error codes of one locale to message templates.
type Catalog struct {
	locale    string
	templates map[Code]string
}

// NewCatalog builds a catalog from a locale and message map.
func NewCatalog(locale string, templates map[Code]string) *Catalog {
	return &Catalog{locale: locale, templates: templates}
}

// Locale reports which locale this catalog renders.
func (c *Catalog) Locale() string { return c.locale }

// Format renders the template registered for code with metadata as its data.
// Unknown codes render as the code itself, and templates always execute even
// with empty metadata so output stays consistent across callers.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.templates[code]
	if !ok {
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	return render(tmpl, metadata)
}

// render executes tmpl against data, returning the raw template text when it
// cannot be parsed or executed.
func render(tmpl string, data map[string]string) string {
	parsed, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return tmpl
	}
	return buf.String()
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{}
)

// GetCatalog returns the catalog for locale, building it from the embedded
// message files on first use. Unknown locales fall back to the base locale.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}

	if c, ok := cached(requested); ok {
		return c
	}

	resolved, messages := i18ncatalog.Default().NamespaceMessagesWithFallback(requested, "errors")
	if c, ok := cached(resolved); ok {
		return c
	}
	return cacheIfAbsent(resolved, NewCatalog(resolved, messages))
}

// RegisterCatalog installs a catalog for a locale, replacing any cached one.
func RegisterCatalog(locale string, c *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = c
}

func cached(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	c, ok := catalogs[locale]
	return c, ok
}

func cacheIfAbsent(locale string, candidate *Catalog) *Catalog {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	if existing, ok := catalogs[locale]; ok {
		return existing
	}
	catalogs[locale] = candidate
	return candidate
}
