package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gubarz/cheater/internal/command"
	"github.com/gubarz/cheater/internal/config"
	"github.com/gubarz/cheater/internal/executor"
	"github.com/gubarz/cheater/internal/parser"
	"github.com/gubarz/cheater/internal/pathcomp"
	"github.com/gubarz/cheater/internal/store"
	"github.com/gubarz/cheater/internal/ui"
)

var version = "0.2.0"

var rootCmd = &cobra.Command{
	Use:   "cheater [path...]",
	Short: "Interactive command cheatsheets",
	Long: `Command cheatsheet tool for Markdown and YAML cheatsheets.

Search your cheatsheets, pick a command, fill in its <arguments>
and print, copy or execute the result.`,
	SilenceUsage: true,
	RunE:         runCheats,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(widgetCmd, varsCmd)

	rootCmd.PersistentFlags().StringP("output", "o", "", "Output mode: print, copy, exec")
	rootCmd.PersistentFlags().StringP("query", "q", "", "Initial search query")
	rootCmd.PersistentFlags().Bool("print", false, "Print command (shorthand for -o print)")
	rootCmd.PersistentFlags().Bool("copy", false, "Copy command (shorthand for -o copy)")
	rootCmd.PersistentFlags().Bool("exec", false, "Execute command (shorthand for -o exec)")
	rootCmd.PersistentFlags().Bool("auto", false, "Auto-select if query matches exactly one result")
	rootCmd.PersistentFlags().Bool("no-prefix", false, "Do not prepend the saved command prefix")
	rootCmd.PersistentFlags().BoolP("benchmark", "b", false, "Benchmark load time and exit")

	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
	setupLogging()
}

// setupLogging applies log_level and sends log lines to log_file so they
// never land on the alt-screen
func setupLogging() {
	level, err := log.ParseLevel(config.GetLogLevel())
	if err != nil {
		level = log.WarnLevel
	}
	log.SetLevel(level)
	log.SetReportTimestamp(true)

	if path := config.GetLogFile(); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			return
		}
		log.SetOutput(f)
	}
}

func runCheats(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		abs := make([]string, 0, len(args))
		for _, arg := range args {
			p, err := filepath.Abs(arg)
			if err != nil {
				return fmt.Errorf("error resolving path: %w", err)
			}
			abs = append(abs, p)
		}
		config.SetPaths(abs)
	}

	// Handle output mode flags
	if p, _ := cmd.Flags().GetBool("print"); p {
		config.SetOutput("print")
	} else if c, _ := cmd.Flags().GetBool("copy"); c {
		config.SetOutput("copy")
	} else if e, _ := cmd.Flags().GetBool("exec"); e {
		config.SetOutput("exec")
	}

	policy, err := command.ParseBuildPolicy(config.GetBuildPolicy())
	if err != nil {
		log.Warn("invalid build_policy, using permissive", "err", err)
	}

	fs := afero.NewOsFs()
	benchmark, _ := cmd.Flags().GetBool("benchmark")
	start := time.Now()

	p := parser.NewParser(fs, parser.Options{
		Formats:      config.GetFormats(),
		ExcludeFiles: config.GetExcludeFiles(),
		ExcludeDirs:  config.GetExcludeDirs(),
	})
	index, err := p.ParsePaths(config.GetPaths())
	if err != nil {
		return fmt.Errorf("load cheats from %v: %w", config.GetPaths(), err)
	}

	if benchmark {
		elapsed := time.Since(start)
		runtime.GC()
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		fmt.Printf("Loaded %d cheats from %d files in %v\n", len(index.Cheats), index.Files, elapsed)
		fmt.Printf("Memory: Alloc=%dMB, TotalAlloc=%dMB, Sys=%dMB, HeapObjects=%d\n",
			m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024, m.HeapObjects)
		return nil
	}

	vars, err := openStore()
	if err != nil {
		return err
	}

	resolver := pathcomp.New(config.GetLaunchDir())
	resolver.Fs = fs

	query, _ := cmd.Flags().GetString("query")
	auto, _ := cmd.Flags().GetBool("auto")

	result, err := ui.Run(ui.Options{
		Cheats:     index.Cheats,
		Store:      vars,
		Resolver:   resolver,
		Finder:     ui.FuzzyFinder{},
		Policy:     policy,
		Labels:     config.GetChoiceLabels(),
		GlobalVars: config.GetGlobalVars(),
		Wordlists:  config.GetWordlists(),
		Keys:       config.GetKeys(),
		Columns: ui.Columns{
			Header: config.GetColumnHeader(),
			Desc:   config.GetColumnDesc(),
			Gap:    config.GetColumnGap(),
			Tags:   config.GetWithTags(),
		},
		Editor: config.GetEditor(),
		Query:  query,
		Auto:   auto,
	})
	if err != nil {
		return err
	}
	if result == "" {
		return nil
	}

	noPrefix, _ := cmd.Flags().GetBool("no-prefix")
	result = applyPrefix(vars, result, noPrefix)

	exec := executor.NewExecutor(config.GetShell()).WithHooks(config.GetPreHook(), config.GetPostHook())
	return exec.OutputWithMode(result, executor.ParseOutputMode(config.GetOutput()))
}

// applyPrefix prepends the saved command prefix unless disabled
func applyPrefix(vars *store.Store, line string, disabled bool) string {
	if disabled {
		return line
	}
	if prefix, ok := vars.Get(config.GetPrefixVar()); ok {
		return executor.WithPrefix(line, prefix)
	}
	return line
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
