// Package main writes translation coverage reports for the message catalogs.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	i18nstatuscmd "github.com/louisbranch/skirmish/internal/cmd/i18nstatus"
	"github.com/louisbranch/skirmish/internal/platform/config"
)

func main() {
	log.SetPrefix("[I18N] ")
	cfg, err := i18nstatuscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	if err := i18nstatuscmd.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
