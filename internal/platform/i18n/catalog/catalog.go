// Package catalog loads the localized message bundle shared by error
// rendering and battle narration.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	xcatalog "golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

const (
	// BaseLocale is the canonical source locale for catalogs.
	BaseLocale = "en-US"
)

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// LocaleCatalog stores all messages for one locale, grouped by namespace.
type LocaleCatalog struct {
	Locale     string
	Namespaces map[string]map[string]string
	Messages   map[string]string
}

// Bundle contains all locale catalogs loaded from disk.
type Bundle struct {
	locales map[string]*LocaleCatalog
}

//go:embed locales/*/*.yaml
var embeddedCatalogFS embed.FS

var defaultBundle = mustLoadEmbedded()

// Default returns the process-wide embedded catalog bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads catalog files embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads catalog files laid out as locales/<locale>/<namespace>.yaml.
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

	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var parsed catalogFile
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.addFile(p, parsed); err != nil {
			return nil, err
		}
	}

	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	return bundle, nil
}

func (b *Bundle) addFile(p string, file catalogFile) error {
	localeFromPath := path.Base(path.Dir(p))
	namespaceFromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))

	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", p)
	}
	if locale != localeFromPath {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, locale, localeFromPath)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("catalog %s: parse locale tag %q: %w", p, locale, err)
	}

	namespace := strings.TrimSpace(file.Namespace)
	if namespace == "" {
		return fmt.Errorf("catalog %s: namespace is required", p)
	}
	if namespace != namespaceFromPath {
		return fmt.Errorf("catalog %s: namespace %q must match filename namespace %q", p, namespace, namespaceFromPath)
	}

	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages map is required", p)
	}

	localeCatalog, ok := b.locales[locale]
	if !ok {
		localeCatalog = &LocaleCatalog{
			Locale:     locale,
			Namespaces: map[string]map[string]string{},
			Messages:   map[string]string{},
		}
		b.locales[locale] = localeCatalog
	}
	if _, exists := localeCatalog.Namespaces[namespace]; exists {
		return fmt.Errorf("catalog %s: namespace %q already defined for locale %q", p, namespace, locale)
	}

	namespaceMessages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		if _, exists := localeCatalog.Messages[trimmedKey]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", p, trimmedKey, locale)
		}

		localeCatalog.Messages[trimmedKey] = value
		namespaceMessages[trimmedKey] = value
	}

	localeCatalog.Namespaces[namespace] = namespaceMessages
	return nil
}

// Builder returns an x/text catalog holding the messages of one namespace
// for every locale. Keys missing from a locale fall back to the base locale.
func (b *Bundle) Builder(namespace string) (*xcatalog.Builder, error) {
	base, err := language.Parse(BaseLocale)
	if err != nil {
		return nil, fmt.Errorf("parse base locale: %w", err)
	}
	builder := xcatalog.NewBuilder(xcatalog.Fallback(base))
	if b == nil {
		return builder, nil
	}
	fallback := b.NamespaceMessages(BaseLocale, namespace)
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		messages := b.NamespaceMessages(locale, namespace)
		for key, value := range fallback {
			if _, ok := messages[key]; !ok {
				messages[key] = value
			}
		}
		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := builder.SetString(tag, key, messages[key]); err != nil {
				return nil, fmt.Errorf("register %s/%s: %w", locale, key, err)
			}
		}
	}
	return builder, nil
}

// HasLocale reports whether the locale exists in this bundle.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns all available locale identifiers.
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

// Tags returns the language tags of all locales, base locale first.
func (b *Bundle) Tags() []language.Tag {
	tags := []language.Tag{language.MustParse(BaseLocale)}
	for _, locale := range b.Locales() {
		if locale == BaseLocale {
			continue
		}
		tags = append(tags, language.MustParse(locale))
	}
	return tags
}

// Match negotiates the best supported locale for an Accept-Language style
// list of preferences. Unknown or empty input resolves to BaseLocale.
func (b *Bundle) Match(preferences ...string) string {
	tags := b.Tags()
	_, index := language.MatchStrings(language.NewMatcher(tags), preferences...)
	return tags[index].String()
}

// LocaleMessages returns an exact locale message map copy.
func (b *Bundle) LocaleMessages(locale string) map[string]string {
	if b == nil {
		return map[string]string{}
	}
	catalog, ok := b.locales[strings.TrimSpace(locale)]
	if !ok || catalog == nil {
		return map[string]string{}
	}
	return copyMap(catalog.Messages)
}

// Message returns one message value with base-locale fallback.
func (b *Bundle) Message(locale string, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	trimmedLocale := strings.TrimSpace(locale)
	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return "", false
	}
	if catalog, ok := b.locales[trimmedLocale]; ok && catalog != nil {
		if value, exists := catalog.Messages[trimmedKey]; exists {
			return value, true
		}
	}
	if trimmedLocale != BaseLocale {
		if catalog, ok := b.locales[BaseLocale]; ok && catalog != nil {
			value, exists := catalog.Messages[trimmedKey]
			return value, exists
		}
	}
	return "", false
}

// Namespaces returns sorted namespace names for a locale.
func (b *Bundle) Namespaces(locale string) []string {
	if b == nil {
		return nil
	}
	catalog, ok := b.locales[strings.TrimSpace(locale)]
	if !ok || catalog == nil {
		return nil
	}
	out := make([]string, 0, len(catalog.Namespaces))
	for namespace := range catalog.Namespaces {
		out = append(out, namespace)
	}
	sort.Strings(out)
	return out
}

// NamespaceMessages returns an exact namespace message map copy for a locale.
func (b *Bundle) NamespaceMessages(locale string, namespace string) map[string]string {
	if b == nil {
		return map[string]string{}
	}
	catalog, ok := b.locales[strings.TrimSpace(locale)]
	if !ok || catalog == nil {
		return map[string]string{}
	}
	messages, ok := catalog.Namespaces[strings.TrimSpace(namespace)]
	if !ok {
		return map[string]string{}
	}
	return copyMap(messages)
}

// NamespaceMessagesWithFallback returns namespace messages and the locale that satisfied the lookup.
func (b *Bundle) NamespaceMessagesWithFallback(locale string, namespace string) (string, map[string]string) {
	trimmedLocale := strings.TrimSpace(locale)
	trimmedNamespace := strings.TrimSpace(namespace)
	if messages := b.NamespaceMessages(trimmedLocale, trimmedNamespace); len(messages) > 0 {
		return trimmedLocale, messages
	}
	return BaseLocale, b.NamespaceMessages(BaseLocale, trimmedNamespace)
}

// MissingKeys lists base-locale keys absent from locale, sorted.
func (b *Bundle) MissingKeys(locale string) []string {
	target := b.LocaleMessages(locale)
	var missing []string
	for key := range b.LocaleMessages(BaseLocale) {
		if _, ok := target[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func copyMap(source map[string]string) map[string]string {
	out := make(map[string]string, len(source))
	for key, value := range source {
		out[key] = value
	}
	return out
}

func mustLoadEmbedded() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return bundle
}
