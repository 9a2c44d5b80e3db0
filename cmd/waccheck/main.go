// waccheck is a thin demo binary over the type-elaboration engine, the
// way ailang/cmd/typecheck is a thin demo binary over the AILANG type
// checker. It reads a resolved-IR fixture (internal/fixture), runs the
// top-level driver (internal/driver) over it, and prints the inferred
// component type or the resulting Report, colorized the way ailang's CLI
// colorizes diagnostics.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/waclang/waccheck/internal/config"
	"github.com/waclang/waccheck/internal/ctx"
	"github.com/waclang/waccheck/internal/driver"
	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/fixture"
	"github.com/waclang/waccheck/internal/ir"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var (
	configPath   string
	outputFormat string
	verbose      bool
)

func main() {
	root := &cobra.Command{
		Use:   "waccheck",
		Short: "Type-check Component Model IR fixtures",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML run configuration")
	root.PersistentFlags().StringVar(&outputFormat, "output", "", "override the configured output format (text|json)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log phase transitions to stderr")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newScriptCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s (Component Model type elaboration engine)\n", bold("waccheck"))
		},
	}
}

// resolveConfig builds a run configuration from --config (when given) or
// the defaults, then applies any CLI-level overrides (spec.md §4.10 takes
// a list of targets; everything else tunes implementation-defined
// behavior).
func resolveConfig(targets []string) (*config.Config, error) {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		cfg.Targets = targets
	}
	if outputFormat != "" {
		cfg.OutputFormat = outputFormat
	}
	if len(targets) > 0 {
		cfg.Targets = targets
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func logPhase(cfg *config.Config, phase, detail string) {
	if !verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s: %s\n", cyan("→"), phase, detail)
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <fixture.yaml>...",
		Short: "Elaborate and validate one or more component fixtures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(args)
			if err != nil {
				return err
			}
			failed := false
			for _, target := range cfg.Targets {
				logPhase(cfg, "load", target)
				comp, err := fixture.LoadComponent(target)
				if err != nil {
					printIOError(cfg, target, err)
					failed = true
					continue
				}
				logPhase(cfg, "elaborate", target)
				ch := driver.NewChecker()
				ct, rep := ch.CheckComponent(comp, ctx.Root())
				if rep != nil {
					printReport(cfg, target, rep)
					failed = true
					continue
				}
				printComponentType(cfg, target, ct)
			}
			if failed {
				os.Exit(1)
			}
			return nil
		},
	}
}

func newScriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script <script.yaml>...",
		Short: "Run assert_invalid/assert_malformed scenarios (spec.md §8)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(args)
			if err != nil {
				return err
			}
			failed := false
			for _, target := range cfg.Targets {
				logPhase(cfg, "load", target)
				script, err := fixture.LoadScript(target)
				if err != nil {
					printIOError(cfg, target, err)
					failed = true
					continue
				}
				logPhase(cfg, "assert", target)
				ch := driver.NewChecker()
				if rep := ch.RunScript(script); rep != nil {
					printReport(cfg, target, rep)
					failed = true
					if cfg.StrictAssertions {
						break
					}
					continue
				}
				printScriptOK(cfg, target)
			}
			if failed {
				os.Exit(1)
			}
			return nil
		},
	}
}

func printIOError(cfg *config.Config, target string, err error) {
	rep := errors.New("IO001", errors.CategoryIO, ir.Region{}, err.Error())
	printReport(cfg, target, rep)
}

func printReport(cfg *config.Config, target string, rep *errors.Report) {
	if cfg.OutputFormat == "json" {
		out, err := rep.ToJSON(false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			return
		}
		fmt.Println(out)
		return
	}
	fmt.Printf("%s %s: %s [%s]\n", red("✗"), bold(target), rep.Message, yellow(rep.Code))
	if rep.Region != nil {
		fmt.Printf("  at %s\n", rep.Region)
	}
}

func printComponentType(cfg *config.Config, target string, ct interface{ String() string }) {
	if cfg.OutputFormat == "json" {
		fmt.Printf("{\"target\":%q,\"ok\":true,\"type\":%q}\n", target, ct.String())
		return
	}
	fmt.Printf("%s %s: %s\n", green("✓"), bold(target), ct.String())
}

func printScriptOK(cfg *config.Config, target string) {
	if cfg.OutputFormat == "json" {
		fmt.Printf("{\"target\":%q,\"ok\":true}\n", target)
		return
	}
	fmt.Printf("%s %s: all assertions passed\n", green("✓"), bold(target))
}
