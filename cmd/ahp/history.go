package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Odla19/DecissionsMaker/internal/decision"
	"github.com/Odla19/DecissionsMaker/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved decisions",
	Long: `History lists decisions saved with evaluate --save, newest first. With
--insights it summarises which criteria dominate past decisions instead.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of decisions to list")
	historyCmd.Flags().Bool("insights", false, "show criterion averages and persona")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	insights, _ := cmd.Flags().GetBool("insights")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	s, err := store.NewSQLiteStore(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer s.Close()

	filter := store.DecisionFilter{Limit: limit}
	if insights {
		filter.Limit = decision.InsightsWindow
	}
	records, err := s.ListDecisions(context.Background(), filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var payload interface{} = records
	if insights {
		payload = decision.ComputeInsights(records)
	}
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	if insights {
		printInsights(out, payload.(decision.Insights))
		return nil
	}
	printHistory(out, records)
	return nil
}

func printHistory(w io.Writer, records []*store.DecisionRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No saved decisions.")
		return
	}
	fmt.Fprintf(w, "%-19s  %-30s  %-20s  %7s  %s\n", "Date", "Mission", "Winner", "Score", "Top criteria")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, d := range records {
		top := make([]string, 0, 3)
		for _, cw := range d.TopWeights(3) {
			top = append(top, fmt.Sprintf("%s %.0f%%", cw.Name, cw.Weight*100))
		}
		fmt.Fprintf(w, "%-19s  %-30s  %-20s  %7.1f  %s\n",
			d.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(d.Mission, 30), truncate(d.Winner, 20), d.Score, strings.Join(top, ", "))
	}
}

func printInsights(w io.Writer, in decision.Insights) {
	if in.Decisions == 0 {
		fmt.Fprintln(w, "No saved decisions.")
		return
	}
	fmt.Fprintf(w, "Decisions: %d\n", in.Decisions)
	fmt.Fprintf(w, "Persona:   %s (top criterion: %s)\n", in.Persona, in.TopCriterion)
	fmt.Fprintf(w, "Winning score mean %.1f, median %.1f, stddev %.1f\n\n", in.MeanScore, in.MedianScore, in.StdDevScore)
	fmt.Fprintf(w, "%-24s  %8s  %5s\n", "Criterion", "Average", "Seen")
	fmt.Fprintln(w, strings.Repeat("-", 41))
	for _, c := range in.Criteria {
		fmt.Fprintf(w, "%-24s  %8.3f  %5d\n", truncate(c.Name, 24), c.Average, c.Count)
	}
}
