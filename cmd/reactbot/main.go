package main

import (
	"flag"
	"fmt"
	"os"
	"reactbot/internal/di"
	"reactbot/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the yaml config")
	flag.StringVar(&flags.SettingsPath, "settings", "settings.json", "path to the settings.json overlay")
	flag.StringVar(&flags.EnvPath, "env", ".env", "path to an optional .env file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug logging")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "reactbot: %s\n", err)
		os.Exit(1)
	}
}
