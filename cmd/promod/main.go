package main

import (
	"fmt"
	"github.com/spf13/pflag"
	"os"
	"promod/internal/di"
	"promod/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	pflag.StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the YAML config file")
	pflag.BoolVarP(&flags.DebugMode, "debug", "d", false, "mirror logs to stdout")
	pflag.Parse()

	app, cleanup, err := di.InitApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %s\n", err)
		os.Exit(1)
	}

	err = app.Run()
	cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %s\n", err)
		os.Exit(1)
	}
}
