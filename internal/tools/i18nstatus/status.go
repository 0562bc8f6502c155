// Package i18nstatus reports translation coverage of the message catalogs
// used for error details and battle narration.
package i18nstatus

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	i18ncatalog "github.com/louisbranch/skirmish/internal/platform/i18n/catalog"
)

// Report is the coverage of every locale against the base locale.
type Report struct {
	BaseLocale string         `json:"base_locale"`
	Locales    []LocaleStatus `json:"locales"`
}

// LocaleStatus is one locale's coverage.
type LocaleStatus struct {
	Locale      string            `json:"locale"`
	BaseKeys    int               `json:"base_keys"`
	Translated  int               `json:"translated"`
	Completion  float64           `json:"completion"`
	Namespaces  []NamespaceStatus `json:"namespaces"`
	MissingKeys []string          `json:"missing_keys"`
	ExtraKeys   []string          `json:"extra_keys"`
}

// NamespaceStatus is one namespace's coverage within a locale.
type NamespaceStatus struct {
	Namespace  string  `json:"namespace"`
	BaseKeys   int     `json:"base_keys"`
	Translated int     `json:"translated"`
	Missing    int     `json:"missing"`
	Completion float64 `json:"completion"`
}

// Complete reports whether no locale is missing a base key.
func (r Report) Complete() bool {
	for _, locale := range r.Locales {
		if len(locale.MissingKeys) > 0 {
			return false
		}
	}
	return true
}

// Build compares every locale in the bundle with baseLocale.
func Build(bundle *i18ncatalog.Bundle, baseLocale string) (Report, error) {
	if bundle == nil {
		return Report{}, fmt.Errorf("catalog bundle is required")
	}
	if !bundle.HasLocale(baseLocale) {
		return Report{}, fmt.Errorf("base locale %q is missing from catalogs", baseLocale)
	}

	base := bundle.LocaleMessages(baseLocale)
	rep := Report{BaseLocale: baseLocale}
	for _, locale := range bundle.Locales() {
		messages := bundle.LocaleMessages(locale)
		missing := diffKeys(base, messages)
		status := LocaleStatus{
			Locale:      locale,
			BaseKeys:    len(base),
			Translated:  len(base) - len(missing),
			MissingKeys: missing,
			ExtraKeys:   diffKeys(messages, base),
		}
		status.Completion = percent(status.Translated, status.BaseKeys)

		namespaces := map[string]struct{}{}
		for _, ns := range bundle.Namespaces(baseLocale) {
			namespaces[ns] = struct{}{}
		}
		for _, ns := range bundle.Namespaces(locale) {
			namespaces[ns] = struct{}{}
		}
		for _, ns := range sortedKeys(namespaces) {
			baseNS := bundle.NamespaceMessages(baseLocale, ns)
			nsMissing := diffKeys(baseNS, bundle.NamespaceMessages(locale, ns))
			translated := len(baseNS) - len(nsMissing)
			status.Namespaces = append(status.Namespaces, NamespaceStatus{
				Namespace:  ns,
				BaseKeys:   len(baseNS),
				Translated: translated,
				Missing:    len(nsMissing),
				Completion: percent(translated, len(baseNS)),
			})
		}
		rep.Locales = append(rep.Locales, status)
	}
	sort.Slice(rep.Locales, func(i, j int) bool {
		return rep.Locales[i].Locale < rep.Locales[j].Locale
	})
	return rep, nil
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteMarkdown writes a translator-facing summary.
func WriteMarkdown(w io.Writer, rep Report) error {
	var b strings.Builder
	b.WriteString("# Translation status\n\n")
	fmt.Fprintf(&b, "Base locale: `%s`.\n\n", rep.BaseLocale)
	b.WriteString("| Locale | Base keys | Translated | Completion |\n")
	b.WriteString("| --- | ---: | ---: | ---: |\n")
	for _, locale := range rep.Locales {
		fmt.Fprintf(&b, "| `%s` | %d | %d | %.1f%% |\n", locale.Locale, locale.BaseKeys, locale.Translated, locale.Completion)
	}

	for _, locale := range rep.Locales {
		fmt.Fprintf(&b, "\n## `%s`\n\n", locale.Locale)
		b.WriteString("| Namespace | Base keys | Missing | Completion |\n")
		b.WriteString("| --- | ---: | ---: | ---: |\n")
		for _, ns := range locale.Namespaces {
			fmt.Fprintf(&b, "| `%s` | %d | %d | %.1f%% |\n", ns.Namespace, ns.BaseKeys, ns.Missing, ns.Completion)
		}
		writeKeyList(&b, "Missing keys", locale.MissingKeys)
		writeKeyList(&b, "Extra keys", locale.ExtraKeys)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func writeKeyList(b *strings.Builder, title string, keys []string) {
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", title)
	for _, key := range keys {
		fmt.Fprintf(b, "- `%s`\n", key)
	}
}

// diffKeys returns the keys of a that b lacks, sorted.
func diffKeys(a, b map[string]string) []string {
	out := make([]string, 0)
	for key := range a {
		if _, ok := b[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys(entries map[string]struct{}) []string {
	out := make([]string, 0, len(entries))
	for key := range entries {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func percent(numerator int, denominator int) float64 {
	if denominator <= 0 {
		return 100
	}
	value := float64(numerator) * 100 / float64(denominator)
	return math.Round(value*10) / 10
}
