package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexcodex/treemend/merge"
	"github.com/lexcodex/treemend/persistence"
	"github.com/lexcodex/treemend/tree"
	"github.com/lexcodex/treemend/vcs"
)

func newMergeCmd() *cobra.Command {
	var (
		output    string
		gitFile   string
		patchFile string
		rev       string
		write     bool
	)
	cmd := &cobra.Command{
		Use:   "merge [BASELINE MODIFIED PATCHED]",
		Short: "Merge three versions of one file structurally",
		Long: `Merge three versions of one file by reconciling their syntax trees.

Either pass three files (baseline, modified, patched) or use --git FILE with
--patch DIFF to pull the baseline from git, the modified version from the
working tree, and derive the patched version by applying the diff.`,
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

			var path, baseline, modified, patched string
			switch {
			case gitFile != "":
				if patchFile == "" {
					return fmt.Errorf("--git requires --patch")
				}
				patch, err := os.ReadFile(patchFile)
				if err != nil {
					return fmt.Errorf("read patch: %w", err)
				}
				if rev == "" {
					rev = cfg.BaselineRev
				}
				source := vcs.NewGitSource(cfg.Workspace)
				versions, err := source.Retrieve(cmd.Context(), gitFile, rev, string(patch))
				if err != nil {
					return err
				}
				path = gitFile
				baseline, modified, patched = versions.Baseline, versions.Modified, versions.Patched
			case len(args) == 3:
				path = args[0]
				texts := make([]string, 3)
				for i, arg := range args {
					data, err := os.ReadFile(arg)
					if err != nil {
						return err
					}
					texts[i] = string(data)
				}
				baseline, modified, patched = texts[0], texts[1], texts[2]
			default:
				return fmt.Errorf("pass three files or --git FILE --patch DIFF")
			}

			registry := tree.DefaultRegistry()
			detector := tree.NewLanguageDetector()
			parser, language := resolveParser(registry, detector, path)

			merger := merge.NewMerger()
			merger.Logger = newLogger()
			result, err := merger.MergeSources(parser, path, baseline, modified, patched)
			if history != nil {
				rec := persistence.NewRecord(path, language, result)
				if err != nil {
					rec = persistence.FailedRecord(path, language, err)
				}
				if saveErr := history.Save(cmd.Context(), rec); saveErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "history save failed: %v\n", saveErr)
				}
			}
			if err != nil {
				return err
			}

			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning [%s] %s: %s\n", w.Code, w.Node, w.Message)
			}
			switch {
			case write && gitFile != "":
				target := gitFile
				if output != "" {
					target = output
				}
				return os.WriteFile(target, []byte(result.Text), 0o644)
			case output != "":
				return os.WriteFile(output, []byte(result.Text), 0o644)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), result.Text)
				return nil
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write merged text to this file instead of stdout")
	cmd.Flags().StringVar(&gitFile, "git", "", "Merge this workspace file using git for the baseline")
	cmd.Flags().StringVar(&patchFile, "patch", "", "Unified diff applied to the baseline to form the patched version")
	cmd.Flags().StringVar(&rev, "rev", "", "Baseline revision (defaults to config baseline_rev)")
	cmd.Flags().BoolVar(&write, "write", false, "With --git, write the merged text back to the file")
	return cmd
}
