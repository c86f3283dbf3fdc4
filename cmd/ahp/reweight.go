package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Odla19/DecissionsMaker/internal/ahp"
)

var reweightCmd = &cobra.Command{
	Use:   "reweight",
	Short: "Pin one weight and rescale the others",
	Long: `Reweight sets the weight at --index to --value and rescales the remaining
weights proportionally so the vector still sums to 1.`,
	Example: `  ahp reweight --weights 0.5,0.3,0.2 --index 0 --value 0.8`,
	RunE:    runReweight,
}

func init() {
	reweightCmd.Flags().Float64Slice("weights", nil, "current weight vector")
	reweightCmd.Flags().Int("index", 0, "position of the weight to pin")
	reweightCmd.Flags().Float64("value", 0, "new weight in [0, 1]")
	_ = reweightCmd.MarkFlagRequired("weights")
	rootCmd.AddCommand(reweightCmd)
}

func runReweight(cmd *cobra.Command, args []string) error {
	weights, _ := cmd.Flags().GetFloat64Slice("weights")
	index, _ := cmd.Flags().GetInt("index")
	value, _ := cmd.Flags().GetFloat64("value")

	if index < 0 || index >= len(weights) {
		return fmt.Errorf("index %d out of range for %d weights", index, len(weights))
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatWeights(ahp.Reweight(weights, index, value)))
	return nil
}

func formatWeights(w []float64) string {
	parts := make([]string, len(w))
	for i, v := range w {
		parts[i] = fmt.Sprintf("%.4f", v)
	}
	return strings.Join(parts, ",")
}
