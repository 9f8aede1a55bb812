package main

import (
	"flag"
	"os"

	"github.com/idilsaglam/task-cli/internal/cli"
)

func main() {
	configPath := flag.String("config", "", "TOML config file")
	storePath := flag.String("store", "", "task file path")
	flag.Usage = func() { cli.PrintUsage(flag.CommandLine.Output()) }
	flag.Parse()

	os.Exit(cli.Run(flag.Args(), cli.Options{
		ConfigPath: *configPath,
		StorePath:  *storePath,
	}))
}
