// Package catalog loads embedded locale catalogs and registers them with
// x/text/message so user-facing strings resolve per locale.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the canonical source locale. Every key must exist here, and
// lookups for unknown locales fall back to it.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedCatalogFS embed.FS

// localeFile is one parsed catalog file: a locale, a namespace, and its
// message map.
type localeFile struct {
	Locale    string
	Namespace string
	Messages  map[string]string
}

// LocaleCatalog stores all messages for one locale, grouped by namespace.
type LocaleCatalog struct {
	Locale     string
	Namespaces map[string]map[string]string
	Messages   map[string]string
}

// Bundle contains every loaded locale catalog.
type Bundle struct {
	locales map[string]*LocaleCatalog
}

var defaultBundle = func() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := bundle.Register(); err != nil {
		panic(err)
	}
	return bundle
}()

// Default returns the process-wide embedded catalog bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalog files embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads catalog files matching locales/<locale>/<namespace>.yaml
// from the provided filesystem.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]*LocaleCatalog{}}
	for _, path := range paths {
		data, err := fs.ReadFile(catalogFS, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		file, err := decodeLocaleFile(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		if err := bundle.merge(path, file); err != nil {
			return nil, err
		}
	}

	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return bundle, nil
}

// merge folds one parsed file into the bundle, enforcing that the declared
// locale and namespace agree with the file's path and that keys stay unique
// within a locale.
func (b *Bundle) merge(path string, file localeFile) error {
	locale := strings.TrimSpace(file.Locale)
	namespace := strings.TrimSpace(file.Namespace)

	switch {
	case locale == "":
		return fmt.Errorf("catalog %s: locale is required", path)
	case locale != filepath.Base(filepath.Dir(path)):
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", path, locale, filepath.Base(filepath.Dir(path)))
	case namespace == "":
		return fmt.Errorf("catalog %s: namespace is required", path)
	case namespace != strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)):
		return fmt.Errorf("catalog %s: namespace %q must match filename", path, namespace)
	}

	lc := b.locales[locale]
	if lc == nil {
		lc = &LocaleCatalog{
			Locale:     locale,
			Namespaces: map[string]map[string]string{},
			Messages:   map[string]string{},
		}
		b.locales[locale] = lc
	}
	if _, exists := lc.Namespaces[namespace]; exists {
		return fmt.Errorf("catalog %s: namespace %q already defined for locale %q", path, namespace, locale)
	}

	scoped := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", path)
		}
		if _, exists := lc.Messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", path, key, locale)
		}
		lc.Messages[key] = value
		scoped[key] = value
	}
	lc.Namespaces[namespace] = scoped
	return nil
}

// Register installs every message with x/text/message. Regional locales also
// register under their base language, so pt-BR strings resolve for plain pt.
func (b *Bundle) Register() error {
	if b == nil {
		return nil
	}
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		if err := registerLocale(tag, b.LocaleMessages(locale)); err != nil {
			return fmt.Errorf("register locale %q: %w", locale, err)
		}
	}
	return nil
}

func registerLocale(tag language.Tag, messages map[string]string) error {
	tags := []language.Tag{tag}
	if base, _ := tag.Base(); base.String() != "" && base.String() != "und" {
		if baseTag, err := language.Parse(base.String()); err == nil && baseTag.String() != tag.String() {
			tags = append(tags, baseTag)
		}
	}

	keys := make([]string, 0, len(messages))
	for key := range messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, target := range tags {
			if err := message.SetString(target, key, messages[key]); err != nil {
				return fmt.Errorf("message %q: %w", key, err)
			}
		}
	}
	return nil
}

// HasLocale reports whether the locale exists in this bundle.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns all available locale identifiers, sorted.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// LocaleMessages returns a copy of every message for one locale.
func (b *Bundle) LocaleMessages(locale string) map[string]string {
	if b == nil {
		return map[string]string{}
	}
	lc := b.locales[strings.TrimSpace(locale)]
	if lc == nil {
		return map[string]string{}
	}
	return copyMessages(lc.Messages)
}

// Message returns one message value, falling back to the base locale when the
// requested locale does not carry the key.
func (b *Bundle) Message(locale string, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	locale = strings.TrimSpace(locale)
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}

	if lc := b.locales[locale]; lc != nil {
		if value, ok := lc.Messages[key]; ok {
			return value, true
		}
	}
	if locale != BaseLocale {
		if lc := b.locales[BaseLocale]; lc != nil {
			value, ok := lc.Messages[key]
			return value, ok
		}
	}
	return "", false
}

// NamespaceMessages returns a copy of one namespace's messages for a locale.
func (b *Bundle) NamespaceMessages(locale string, namespace string) map[string]string {
	if b == nil {
		return map[string]string{}
	}
	lc := b.locales[strings.TrimSpace(locale)]
	if lc == nil {
		return map[string]string{}
	}
	messages, ok := lc.Namespaces[strings.TrimSpace(namespace)]
	if !ok {
		return map[string]string{}
	}
	return copyMessages(messages)
}

// NamespaceMessagesWithFallback returns namespace messages and the locale
// that satisfied the lookup.
func (b *Bundle) NamespaceMessagesWithFallback(locale string, namespace string) (string, map[string]string) {
	locale = strings.TrimSpace(locale)
	namespace = strings.TrimSpace(namespace)
	if messages := b.NamespaceMessages(locale, namespace); len(messages) > 0 {
		return locale, messages
	}
	return BaseLocale, b.NamespaceMessages(BaseLocale, namespace)
}

func copyMessages(source map[string]string) map[string]string {
	out := make(map[string]string, len(source))
	for key, value := range source {
		out[key] = value
	}
	return out
}

// decodeLocaleFile parses the restricted YAML subset catalog files use: a
// quoted locale, a quoted namespace, and a flat messages map of quoted
// key/value pairs. Blank lines and # comments are skipped.
func decodeLocaleFile(data []byte) (localeFile, error) {
	out := localeFile{Messages: map[string]string{}}
	inMessages := false

	for _, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "locale:"):
			value, err := unquote(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
			if err != nil {
				return localeFile{}, fmt.Errorf("parse locale: %w", err)
			}
			out.Locale = value
		case strings.HasPrefix(line, "namespace:"):
			value, err := unquote(strings.TrimSpace(strings.TrimPrefix(line, "namespace:")))
			if err != nil {
				return localeFile{}, fmt.Errorf("parse namespace: %w", err)
			}
			out.Namespace = value
		case line == "messages:":
			inMessages = true
		default:
			if !inMessages {
				return localeFile{}, fmt.Errorf("unexpected line %q", line)
			}
			key, value, err := splitEntry(line)
			if err != nil {
				return localeFile{}, fmt.Errorf("parse message entry %q: %w", line, err)
			}
			out.Messages[key] = value
		}
	}

	switch {
	case out.Locale == "":
		return localeFile{}, fmt.Errorf("missing locale")
	case out.Namespace == "":
		return localeFile{}, fmt.Errorf("missing namespace")
	case len(out.Messages) == 0:
		return localeFile{}, fmt.Errorf("missing messages")
	}
	return out, nil
}

func splitEntry(line string) (string, string, error) {
	colon := strings.Index(line, `":`)
	if colon == -1 || !strings.HasPrefix(line, `"`) {
		return "", "", fmt.Errorf("expected quoted key followed by ':'")
	}
	key, err := strconv.Unquote(line[:colon+1])
	if err != nil {
		return "", "", fmt.Errorf("unquote key: %w", err)
	}
	value, err := unquote(strings.TrimSpace(line[colon+2:]))
	if err != nil {
		return "", "", fmt.Errorf("unquote value: %w", err)
	}
	return key, value, nil
}

func unquote(value string) (string, error) {
	if !strings.HasPrefix(value, `"`) || !strings.HasSuffix(value, `"`) || len(value) < 2 {
		return "", fmt.Errorf("value %q must be double-quoted", value)
	}
	return strconv.Unquote(value)
}
