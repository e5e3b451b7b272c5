package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cardwise/internal/query"
)

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [query]",
		Short: "Show how a query is interpreted",
		Long:  `Parse a free-text query and print the extracted category, merchant, amount, intent and confidence without running a recommendation.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runParse,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	interpreter := query.NewInterpreter()

	parsed, err := interpreter.Parse(strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "category:   %s\n", parsed.EffectiveCategory())
	if parsed.Merchant != "" {
		fmt.Fprintf(out, "merchant:   %s\n", parsed.Merchant)
	}
	if parsed.Amount != nil {
		fmt.Fprintf(out, "amount:     $%.2f\n", *parsed.Amount)
	}
	fmt.Fprintf(out, "intent:     %s\n", parsed.Intent)
	fmt.Fprintf(out, "confidence: %.2f\n", parsed.Confidence)

	return nil
}
