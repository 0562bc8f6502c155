// Package i18nstatus parses i18n status command flags and writes the
// translation coverage reports.
package i18nstatus

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	entrypoint "github.com/louisbranch/skirmish/internal/platform/cmd"
	i18ncatalog "github.com/louisbranch/skirmish/internal/platform/i18n/catalog"
	"github.com/louisbranch/skirmish/internal/tools/i18nstatus"
)

// ErrIncomplete is returned in check mode when a locale misses base keys.
var ErrIncomplete = errors.New("translations are incomplete")

// Config holds i18n status command configuration.
type Config struct {
	BaseLocale  string `env:"SKIRMISH_I18N_BASE_LOCALE" envDefault:"en-US"`
	MarkdownOut string `env:"SKIRMISH_I18N_STATUS_OUT"  envDefault:"docs/i18n-status.md"`
	JSONOut     string `env:"SKIRMISH_I18N_STATUS_JSON" envDefault:"docs/i18n-status.json"`
	Check       bool   `env:"SKIRMISH_I18N_CHECK"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.BaseLocale, "base-locale", cfg.BaseLocale, "base locale used as translation source of truth")
	fs.StringVar(&cfg.MarkdownOut, "out", cfg.MarkdownOut, "markdown output path (empty skips)")
	fs.StringVar(&cfg.JSONOut, "json-out", cfg.JSONOut, "json output path (empty skips)")
	fs.BoolVar(&cfg.Check, "check", cfg.Check, "fail when any locale misses base keys")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the report from the embedded catalogs and writes it.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return RunWithBundle(ctx, cfg, i18ncatalog.Default(), out)
}

// RunWithBundle is Run over an explicit bundle.
func RunWithBundle(_ context.Context, cfg Config, bundle *i18ncatalog.Bundle, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	rep, err := i18nstatus.Build(bundle, cfg.BaseLocale)
	if err != nil {
		return err
	}
	if cfg.JSONOut != "" {
		if err := writeFile(cfg.JSONOut, func(w io.Writer) error { return i18nstatus.WriteJSON(w, rep) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", cfg.JSONOut)
	}
	if cfg.MarkdownOut != "" {
		if err := writeFile(cfg.MarkdownOut, func(w io.Writer) error { return i18nstatus.WriteMarkdown(w, rep) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", cfg.MarkdownOut)
	}
	for _, locale := range rep.Locales {
		fmt.Fprintf(out, "%s: %.1f%% (%d missing)\n", locale.Locale, locale.Completion, len(locale.MissingKeys))
	}
	if cfg.Check && !rep.Complete() {
		return ErrIncomplete
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
