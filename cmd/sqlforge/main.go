// Command sqlforge compiles a schema definition file into a dependency-ordered
// set of database scripts.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/compiler/gen"
)

var (
	warnText  = color.New(color.FgYellow).SprintFunc()
	errorText = color.New(color.FgRed).SprintFunc()
	okText    = color.New(color.FgGreen).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:     "sqlforge",
	Short:   "Compile a schema definition into database scripts",
	Long: `sqlforge turns a declarative schema definition (JSON or YAML) into a
dependency-ordered set of database scripts: table creation, constraints,
triggers, comments, views, seed data and a CRUD package per table.`,
	Version:       sqlforge.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	viper.SetEnvPrefix("SQLFORGE")
	viper.AutomaticEnv()
}

// printDiagnostics renders the run's findings, warnings in yellow and errors
// in red, and reports how many of each there were.
func printDiagnostics(diags []gen.Diagnostic) (warnings, errors int) {
	for _, d := range diags {
		line := d.String()
		switch d.Severity {
		case gen.SeverityError:
			errors++
			fmt.Fprintln(os.Stderr, errorText(line))
		default:
			warnings++
			fmt.Fprintln(os.Stderr, warnText(line))
		}
	}
	return warnings, errors
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorText("error: "+err.Error()))
		os.Exit(1)
	}
}
