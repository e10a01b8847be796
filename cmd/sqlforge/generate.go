package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/compiler/gen"
)

var generateCmd = &cobra.Command{
	Use:   "generate <definition>",
	Short: "Generate scripts from a definition file",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringP("out", "o", "output", "output directory for the generated scripts")
	generateCmd.Flags().String("author", "", "author stamped into script headers")
	generateCmd.Flags().String("license", "", "license stamped into script headers")
	generateCmd.Flags().Int("workers", 0, "number of tables generated concurrently (0 = all CPUs)")
	generateCmd.Flags().BoolP("watch", "w", false, "watch the definition file and regenerate on change")
	generateCmd.Flags().Bool("explain", false, "print the resolved creation order")
	for _, name := range []string{"out", "author", "license", "workers"} {
		if err := viper.BindPFlag(name, generateCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
	rootCmd.AddCommand(generateCmd)
}

// options assembles the pipeline options from flags and environment.
func options() []gen.Option {
	var opts []gen.Option
	if author := viper.GetString("author"); author != "" {
		opts = append(opts, gen.WithAuthor(author))
	}
	if license := viper.GetString("license"); license != "" {
		opts = append(opts, gen.WithLicense(license))
	}
	if workers := viper.GetInt("workers"); workers > 0 {
		opts = append(opts, gen.WithWorkers(workers))
	}
	return opts
}

func runGenerate(cmd *cobra.Command, args []string) error {
	definition := args[0]
	outDir := viper.GetString("out")
	explain, _ := cmd.Flags().GetBool("explain")
	watch, _ := cmd.Flags().GetBool("watch")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := generateOnce(ctx, definition, outDir, explain); err != nil {
		return err
	}
	if !watch {
		return nil
	}
	return watchDefinition(ctx, definition, outDir, explain)
}

// generateOnce runs one full load-generate-write cycle and reports the outcome.
func generateOnce(ctx context.Context, definition, outDir string, explain bool) error {
	result, err := sqlforge.Generate(ctx, definition, outDir, options()...)
	if err != nil {
		return err
	}
	if explain {
		fmt.Fprintln(os.Stdout, result.Explanation)
	}
	warnings, errors := printDiagnostics(result.Diagnostics)
	fmt.Fprintln(os.Stdout, okText(fmt.Sprintf(
		"wrote %d files (%d bytes) to %s; %d warnings, %d errors",
		result.Metrics.FilesWritten, result.Metrics.TotalBytes, outDir, warnings, errors)))
	return nil
}

// watchDefinition regenerates on every change to the definition file until
// the context is canceled. Edits are debounced, and a cycle that fails to
// load keeps the watch alive so the next save can fix it.
func watchDefinition(ctx context.Context, definition, outDir string, explain bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save and
	// the watch would die with the old inode.
	dir := filepath.Dir(definition)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target, err := filepath.Abs(definition)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, okText("watching "+definition))

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watcher.Errors:
			return fmt.Errorf("watch: %w", err)
		case ev := <-watcher.Events:
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || abs != target {
				continue
			}
			debounce = time.After(200 * time.Millisecond)
		case <-debounce:
			debounce = nil
			if err := generateOnce(ctx, definition, outDir, explain); err != nil {
				fmt.Fprintln(os.Stderr, errorText("error: "+err.Error()))
			}
		}
	}
}
