package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"openmploop/internal/annotate"
	"openmploop/internal/cast"
	"openmploop/internal/config"
	"openmploop/internal/driver"
	"openmploop/internal/report"
	"openmploop/internal/watcher"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	formatFlag         string
	watchFlag          bool
	configFlag         string
	generateConfigFlag bool
	generatePragmas    bool
	verboseFlag        bool
)

var rootCmd = &cobra.Command{
	Use:   "openmploop <source_file> [more_files...]",
	Short: "Finds loops in C source that are safe to parallelize and proposes OpenMP pragmas",
	Long: `openmploop is a static analyzer for C translation units. For every
loop it finds, it classifies scalar, array, cross-iteration, pointer, and
call-effect dependencies, and for loops it judges safe it proposes an
OpenMP pragma with a confidence score and a one-line rationale.

Examples:
  openmploop kernel.c                      # Analyze one file
  openmploop --generate-pragmas kernel.c   # Also write kernel_openmp.c
  openmploop --format=json kernel.c        # Output results as JSON
  openmploop --config=.openmploop.yml k.c  # Use custom config
  openmploop --generate-config             # Write a sample config file`,
	Args: cobra.ArbitraryArgs,
	Run:  runAnalysis,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format (console, json)")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch mode: re-analyze on source changes")
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().BoolVar(&generateConfigFlag, "generate-config", false, "Generate sample configuration file")
	rootCmd.Flags().BoolVarP(&generatePragmas, "generate-pragmas", "g", false, "Write an annotated copy of each source file")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print every loop's warnings, not just its verdict")
}

func runAnalysis(cmd *cobra.Command, args []string) {
	if generateConfigFlag {
		generateConfigFile()
		return
	}

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		color.Red("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}
	if verboseFlag {
		cfg.Output.Verbose = true
	}
	if generatePragmas {
		cfg.Output.GeneratePragmas = true
	}

	if len(args) == 0 {
		color.Red("Error: no source file given\n")
		os.Exit(1)
	}

	if watchFlag {
		runWatch(args, cfg)
		return
	}

	if !analyzeAndReport(args, cfg) {
		os.Exit(1)
	}
}

// analyzeAndReport runs the pipeline over every file and prints the
// report. It returns false if any file failed to read or parse, or if
// --generate-pragmas was requested and writing the annotated copy failed
// — the exit-code-1 cases of spec §6's CLI surface.
func analyzeAndReport(paths []string, cfg *config.Config) bool {
	d := driver.NewWithConfig(cfg)
	ok := true

	var files []report.FileResult
	for _, path := range paths {
		source, err := annotate.ReadSource(path)
		if err != nil {
			color.Red("Error reading %s: %v\n", path, err)
			ok = false
			continue
		}

		file, err := cast.NewParser(source).ParseFile()
		if err != nil {
			color.Red("Error parsing %s: %v\n", path, err)
			ok = false
			continue
		}

		results := d.AnalyzeFile(file)
		files = append(files, report.FileResult{Path: path, Functions: results})

		if cfg.Output.GeneratePragmas {
			insertions, skips := annotate.Plan(results)
			annotated := annotate.Annotate(source, insertions)
			out, err := annotate.WriteAnnotated(path, annotated)
			if err != nil {
				color.Red("Error writing annotated copy of %s: %v\n", path, err)
				ok = false
				continue
			}
			color.Green("Wrote %s (%d pragmas, %d skipped)\n", out, len(insertions), len(skips))
		}
	}

	gen := report.NewGenerator(cfg.Output.Format, cfg.Output.Colors, cfg.Output.Verbose, cfg.Output.ShowReasoning)
	output := gen.Generate(files)

	if cfg.Output.OutputFile != "" {
		if err := writeReportToFile(output, cfg.Output.OutputFile); err != nil {
			color.Red("Failed to write report to file: %v\n", err)
			ok = false
		} else {
			color.Green("Report saved to: %s\n", cfg.Output.OutputFile)
		}
	} else {
		fmt.Println(output)
	}

	return ok
}

func runWatch(paths []string, cfg *config.Config) {
	fw, err := watcher.NewFileWatcher(cfg)
	if err != nil {
		color.Red("Error starting watcher: %v\n", err)
		os.Exit(1)
	}
	defer fw.Close()

	run := func(changed []string) error {
		color.Cyan("Re-analyzing %d changed file(s)...\n", len(changed))
		analyzeAndReport(changed, cfg)
		return nil
	}

	if err := fw.Watch(paths, run); err != nil {
		color.Red("Error watching paths: %v\n", err)
		os.Exit(1)
	}

	color.Cyan("Watching for changes in %v. Press Ctrl+C to stop.\n", paths)
	analyzeAndReport(paths, cfg)
	for {
		time.Sleep(time.Second)
	}
}

func writeReportToFile(report, filePath string) error {
	dir := filepath.Dir(filePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, []byte(report), 0644)
}

func generateConfigFile() {
	configPath := ".openmploop.yml"
	if err := config.GenerateConfig(configPath); err != nil {
		color.Red("Failed to generate config file: %v\n", err)
		os.Exit(1)
	}
	color.Green("Generated sample configuration file: %s\n", configPath)
	color.Cyan("Edit this file to customize openmploop's thresholds and output.\n")
	color.Cyan("Run 'openmploop --config=%s kernel.c' to use it.\n", configPath)
}
