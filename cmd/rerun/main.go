package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errTestsFailed is returned by commands whose suite ran but did not fully
// pass. It maps to exit code 1 without an extra error line.
var errTestsFailed = errors.New("one or more tests did not pass")

var rootCmd = &cobra.Command{
	Use:   "rerun",
	Short: "Run test suites under repeat, timeout-retry and expected-error policies",
	Long: `rerun executes test suites described in JSON or YAML. Each test can be
wrapped in policies that repeat it until it passes, retry it only when it
exceeded its time limit, or expect it to raise an error of a given category.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       versionLine(),
}

var globalFlags struct {
	suiteDir  string
	logLevel  string
	logFormat string
	envFile   string
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.suiteDir, "suite-dir", "suites", "directory to look up suites given by name")
	pf.StringVar(&globalFlags.logLevel, "log-level", "", "log level: debug, info, warn, error (env RERUN_LOG_LEVEL)")
	pf.StringVar(&globalFlags.logFormat, "log-format", "", "log format: console or json (env RERUN_LOG_FORMAT)")
	pf.StringVar(&globalFlags.envFile, "env-file", "", "dotenv file loaded before suites are read")

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(runCmd, validateCmd, listCmd, watchCmd, compareCmd, historyCmd, versionCmd)
}

func main() {
	os.Exit(execute())
}

func execute() int {
	err := rootCmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errTestsFailed):
		return 1
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
}
