// DiskLayers: stacked disk usage bands in the terminal, using Bubble Tea

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jvanrhyn.dev/disklayers/internal/layout"
	"jvanrhyn.dev/disklayers/internal/logging"
	"jvanrhyn.dev/disklayers/internal/source"
)

var (
	logLevel     string
	logFile      string
	threads      int
	followLinks  bool
	selector     string
	query        string
	lastRootWins bool
	scanOutput   string
	paintRoot    string
	paintFormat  string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "disklayers",
	Short:         "Show disk usage as nested, drillable bands",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logging.Config{Level: logLevel, File: logFile})
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:   "view [source]",
	Short: "Browse a directory or snapshot interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := sourceArg(args)
		m := initialModel(src, loadOptions(), logger)
		m.indexOpts = indexOptions()
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
		_, err := p.Run()
		return err
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Scan a directory and write a snapshot (.json, .json.gz, .json.zst, .db)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := newScanner()
		res, err := sc.Scan(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, e := range res.Errors {
			logger.Warn("unreadable directory", zap.Error(e))
		}
		if err := source.Save(cmd.Context(), scanOutput, res.Records); err != nil {
			return err
		}
		logger.Info("snapshot written",
			zap.String("output", scanOutput),
			zap.Int("records", len(res.Records)),
			zap.Int("errors", len(res.Errors)))
		return nil
	},
}

var paintCmd = &cobra.Command{
	Use:   "paint [source]",
	Short: "Print the paint order of a directory or snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recs, err := source.Load(cmd.Context(), sourceArg(args), loadOptions())
		if err != nil {
			return err
		}
		layers, err := paintLayers(recs, layout.ID(paintRoot), indexOptions()...)
		if err != nil {
			return err
		}
		return writePaint(cmd.OutOrStdout(), layers, paintFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $"+logging.EnvLevel+" or info")
	pf.StringVar(&logFile, "log-file", "", "Log file, - for stderr (default "+logging.DefaultFile()+")")
	pf.IntVar(&threads, "threads", runtime.GOMAXPROCS(0)*4, "Worker concurrency when scanning directories")
	pf.BoolVar(&followLinks, "follow-symlinks", false, "Follow symbolic links while scanning")
	pf.StringVar(&selector, "select", source.DefaultSelector, "JSONPath selecting records in JSON snapshots")
	pf.StringVar(&query, "query", source.DefaultQuery, "SQL selecting records in SQLite snapshots")
	pf.BoolVar(&lastRootWins, "last-root-wins", false, "Accept several root records and use the last one")

	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "-", "Snapshot path, - for stdout JSON")
	paintCmd.Flags().StringVar(&paintRoot, "root", "", "Folder id to use as the current root")
	paintCmd.Flags().StringVar(&paintFormat, "format", formatTable, "Output format: table or csv")

	rootCmd.AddCommand(viewCmd, scanCmd, paintCmd)
}

func sourceArg(args []string) string {
	src := "."
	if len(args) > 0 {
		src = args[0]
	}
	if src == "-" {
		return src
	}
	if abs, err := filepath.Abs(src); err == nil {
		src = abs
	}
	return src
}

func newScanner() *source.Scanner {
	return &source.Scanner{Threads: threads, FollowSymlinks: followLinks, Logger: logger}
}

func loadOptions() source.Options {
	return source.Options{
		Selector: selector,
		Query:    query,
		Scanner:  newScanner(),
		Logger:   logger,
	}
}

func indexOptions() []layout.IndexOption {
	if lastRootWins {
		return []layout.IndexOption{layout.WithLastRootWins()}
	}
	return nil
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
