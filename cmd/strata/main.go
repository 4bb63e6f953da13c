package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jward/strata"
	"github.com/jward/strata/internal/model"
	"github.com/jward/strata/internal/store"
)

var (
	flagFormat    string
	flagDB        string
	flagConfig    string
	flagLanguages string
	flagExcludes  []string
	flagWorkers   int
	flagVerbose   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "strata",
	Short:         "Cross-language project structure and navigation-flow analysis",
	Long:          "Strata builds a unified component model of a heterogeneous source tree:\nstructural components, typed relationships, screen-navigation flows, and\nderived user-flow and business-process abstractions.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagFormat != "json" && flagFormat != "text" {
			return fmt.Errorf("invalid format %q (want json or text)", flagFormat)
		}
		return nil
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a source tree and print (or persist) its structure model",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&flagDB, "db", "", "also persist the snapshot to a SQLite database at this path")
	analyzeCmd.Flags().StringVar(&flagConfig, "config", "", "config file (default: <path>/.strata.yml)")
	analyzeCmd.Flags().StringVar(&flagLanguages, "languages", "", "comma-separated language filter (java,kotlin,dart,xml)")
	analyzeCmd.Flags().StringArrayVar(&flagExcludes, "exclude", nil, "glob pattern to skip (repeatable)")
	analyzeCmd.Flags().IntVar(&flagWorkers, "workers", 0, "extraction worker count (default: NumCPU)")
	analyzeCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = filepath.Join(absRoot, strata.DefaultConfigFile)
	}
	cfg, err := strata.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	level := log.WarnLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	opts := []strata.Option{
		strata.WithConfig(cfg),
		strata.WithLogger(logger),
		strata.WithExcludes(flagExcludes...),
	}
	if flagLanguages != "" {
		var langs []model.Language
		for _, l := range strings.Split(flagLanguages, ",") {
			langs = append(langs, model.Language(strings.TrimSpace(l)))
		}
		opts = append(opts, strata.WithLanguages(langs...))
	}
	if flagWorkers > 0 {
		opts = append(opts, strata.WithWorkers(flagWorkers))
	}

	engine, err := strata.New(opts...)
	if err != nil {
		return err
	}

	res, err := engine.Analyze(cmd.Context(), absRoot)
	if err != nil {
		return err
	}

	if flagDB != "" {
		if err := persistSnapshot(flagDB, res); err != nil {
			return err
		}
		logger.Info("snapshot written", "db", flagDB)
	}

	switch flagFormat {
	case "json":
		return outputJSON(cmd.OutOrStdout(), res)
	default:
		return outputText(cmd.OutOrStdout(), res)
	}
}

func persistSnapshot(dbPath string, res *strata.Result) error {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return err
	}
	return s.Save(store.Snapshot{
		Components:      res.Components,
		Relationships:   res.Relationships,
		NavigationFlows: res.NavigationFlows,
		UserFlows:       res.UserFlows,
		Processes:       res.Processes,
		Dependencies:    res.Dependencies,
	})
}
