package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lexcodex/treemend/cmd/internal/mergecfg"
	"github.com/lexcodex/treemend/internal/review"
	"github.com/lexcodex/treemend/merge"
	"github.com/lexcodex/treemend/persistence"
	"github.com/lexcodex/treemend/server"
	"github.com/lexcodex/treemend/tree"
)

var (
	flagWorkspace string
	flagLanguage  string
	flagNoHistory bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "treemend",
		Short: "Structural three-way merge for source files",
		Long:  "treemend reconciles a baseline, a locally modified version, and a patched version of a file by merging their syntax trees instead of their text lines.",
	}
	root.PersistentFlags().StringVar(&flagWorkspace, "workspace", ".", "Workspace root (holds config and merge history)")
	root.PersistentFlags().StringVar(&flagLanguage, "language", "", "Force a parser language instead of detecting from the file name")
	root.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Skip recording merge outcomes")

	root.AddCommand(newMergeCmd(), newServeCmd(), newRPCCmd(), newHistoryCmd(), newReviewCmd(), newInitCmd())
	return root
}

func loadConfig() (mergecfg.Config, error) {
	return mergecfg.Load(flagWorkspace)
}

func openHistory(cfg mergecfg.Config) (persistence.HistoryStore, error) {
	if flagNoHistory {
		return nil, nil
	}
	if cfg.HistoryBackend == "file" {
		return persistence.NewFileHistoryStore(cfg.HistoryPath)
	}
	return persistence.NewSQLiteHistoryStore(cfg.HistoryPath)
}

func resolveParser(registry *tree.ParserRegistry, detector *tree.LanguageDetector, path string) (tree.Parser, string) {
	language := flagLanguage
	if language == "" {
		language = detector.Detect(path)
	}
	parser, ok := registry.GetParser(language)
	if !ok {
		parser, _ = registry.GetParser("text")
		language = "text"
	}
	return parser, language
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newLogger() *log.Logger {
	return log.New(os.Stderr, "treemend: ", log.LstdFlags)
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default workspace configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := mergecfg.DefaultConfig()
			cfg.Workspace = flagWorkspace
			if err := mergecfg.Save(flagWorkspace, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", mergecfg.ConfigPath(flagWorkspace))
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP merge API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ServerAddr
			}
			history, err := openHistory(cfg)
			if err != nil {
				return err
			}
			if history != nil {
				defer history.Close()
			}
			api := &server.APIServer{
				Merger:   merge.NewMerger(),
				Registry: tree.DefaultRegistry(),
				Detector: tree.NewLanguageDetector(),
				History:  history,
				Logger:   newLogger(),
			}
			ctx, cancel := signalContext()
			defer cancel()
			return api.ServeContext(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to config server_addr)")
	return cmd
}

func newRPCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rpc",
		Short: "Serve merge requests over JSON-RPC on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			history, err := openHistory(cfg)
			if err != nil {
				return err
			}
			if history != nil {
				defer history.Close()
			}
			rpc := &server.RPCServer{
				Merger:   merge.NewMerger(),
				Registry: tree.DefaultRegistry(),
				Detector: tree.NewLanguageDetector(),
				History:  history,
				Logger:   newLogger(),
			}
			ctx, cancel := signalContext()
			defer cancel()
			return rpc.Run(ctx, stdioPipe{})
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded merges",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			history, err := openHistory(cfg)
			if err != nil {
				return err
			}
			if history == nil {
				return fmt.Errorf("history disabled")
			}
			defer history.Close()
			records, err := history.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, rec := range records {
				status := "ok"
				if !rec.Success {
					status = "failed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s %s  merged=%d inserted=%d conflicts=%d warnings=%d\n",
					rec.MergedAt.Format("2006-01-02 15:04:05"), status, rec.Path,
					rec.Stats.NodesMerged, rec.Stats.NodesInserted,
					rec.Stats.BaselineDefaults, len(rec.Warnings))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum records to list")
	return cmd
}

func newReviewCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Browse merge history in a terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			history, err := openHistory(cfg)
			if err != nil {
				return err
			}
			if history == nil {
				return fmt.Errorf("history disabled")
			}
			defer history.Close()
			ctx, cancel := signalContext()
			defer cancel()
			return review.Run(ctx, history, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum records to load")
	return cmd
}

// stdioPipe adapts process stdio into the ReadWriteCloser the RPC server
// consumes.
type stdioPipe struct{}

func (stdioPipe) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioPipe) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioPipe) Close() error                { return nil }
