package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Odla19/DecissionsMaker/internal/decision"
	"github.com/Odla19/DecissionsMaker/internal/store"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <problem.yaml>",
	Short: "Evaluate a decision problem file",
	Long: `Evaluate reads a YAML problem (criteria, alternatives, pairwise judgments or
star ratings), derives criterion weights, ranks the alternatives and reports the
consistency ratio of every comparison set. With --save the decision summary is
appended to the local history.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().Bool("json", false, "output the full result as JSON")
	evaluateCmd.Flags().Bool("save", false, "save the decision summary to the history file")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	p, err := loadProblem(args[0])
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ev := decision.NewEvaluator(evaluatorOptions(), nil, nil, logger)
	res, err := ev.Evaluate(context.Background(), p)
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", args[0], err)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printResult(os.Stdout, res, evaluatorOptions().ScorePrecision)
	}

	save, _ := cmd.Flags().GetBool("save")
	if !save {
		return nil
	}
	s, err := store.NewSQLiteStore(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer s.Close()
	rec := res.Record()
	if err := s.SaveDecision(context.Background(), rec); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved decision %s\n", rec.ID)
	return nil
}

func evaluatorOptions() decision.Options {
	opts := decision.DefaultOptions()
	if v := viper.GetFloat64("score_scale"); v > 0 {
		opts.ScoreScale = v
	}
	if viper.IsSet("score_precision") {
		opts.ScorePrecision = viper.GetInt("score_precision")
	}
	return opts
}

// loadProblem decodes a YAML problem file.
func loadProblem(path string) (*decision.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading problem: %w", err)
	}
	var p decision.Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing problem %s: %w", path, err)
	}
	return &p, nil
}

func printResult(w io.Writer, res *decision.Result, precision int) {
	if res.Mission != "" {
		fmt.Fprintf(w, "Mission: %s\n\n", res.Mission)
	}

	fmt.Fprintf(w, "%-24s  %8s  %8s\n", "Criterion", "Weight", "CR")
	fmt.Fprintln(w, strings.Repeat("-", 44))
	for _, c := range res.Criteria {
		fmt.Fprintf(w, "%-24s  %8.3f  %8.3f\n", truncate(label(c.Criterion.Name, c.Criterion.ID), 24), c.Weight, c.Consistency.CR)
	}
	fmt.Fprintf(w, "Criteria CR: %.3f\n\n", res.CriteriaConsistency.CR)

	fmt.Fprintf(w, "%-4s  %-24s  %8s  %s\n", "Rank", "Alternative", "Score", "")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, a := range res.Ranking {
		note := ""
		if a.Dominated {
			note = "dominated"
		}
		fmt.Fprintf(w, "%-4d  %-24s  %8.*f  %s\n", a.Rank, truncate(label(a.Name, a.ID), 24), precision, a.DisplayScore, note)
	}

	if !res.IsConsistent {
		fmt.Fprintln(w, "\nWarning: some judgments are inconsistent (CR >= 0.1); consider revisiting them.")
	}
}

func label(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
