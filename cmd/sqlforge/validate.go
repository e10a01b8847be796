package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/sqlforge"
)

var validateCmd = &cobra.Command{
	Use:   "validate <definition>",
	Short: "Check a definition file without generating anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := sqlforge.Validate(args[0])
		if err != nil {
			return err
		}
		fields := 0
		for _, t := range sc.Tables {
			fields += len(t.Fields)
		}
		fmt.Fprintln(os.Stdout, okText(fmt.Sprintf(
			"%s: %d tables, %d fields", args[0], len(sc.Tables), fields)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
