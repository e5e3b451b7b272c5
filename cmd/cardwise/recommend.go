package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cardwise/internal/common"
	"cardwise/internal/config"
	"cardwise/internal/limits"
	"cardwise/internal/model"
	"cardwise/internal/notify"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend [query]",
		Short: "Recommend a card for a purchase",
		Long: `Describe what you're buying in plain text and get the best card for it.

Examples:
  cardwise recommend "buying groceries at whole foods"
  cardwise recommend "dinner tonight, probably $80"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRecommend,
	}

	cmd.Flags().String("as-of", "", "Evaluate limits and bonuses as of this date (YYYY-MM-DD, default today)")

	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	queryText := strings.Join(args, " ")

	asOf := time.Now()
	if raw, _ := cmd.Flags().GetString("as-of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return common.NewUserError("Invalid --as-of date, expected YYYY-MM-DD", err)
		}
		asOf = parsed
	}

	settings := config.Load()

	store, err := initStorage(ctx, settings)
	if err != nil {
		return common.NewUserError("Failed to open storage", err)
	}
	defer func() { _ = store.Close() }()

	svc, err := buildService(settings)
	if err != nil {
		return err
	}

	cards, err := store.GetActiveCards(ctx)
	if err != nil {
		return common.NewUserError("Failed to load cards", err)
	}

	prefs, err := store.GetPreferences(ctx)
	if err != nil {
		return common.NewUserError("Failed to load preferences", err)
	}

	resp, narrative, err := svc.Recommend(ctx, queryText, cards, prefs, asOf)
	if err != nil {
		return err
	}

	printResponse(cmd, resp, narrative)

	// Fire limit notifications for the cards the user is about to reach for.
	notifier := notify.NewLogNotifier(prefs.NotificationsEnabled)
	tracker := limits.NewTracker()
	for _, cs := range []*model.CardScore{resp.Primary, resp.Secondary} {
		if cs == nil || cs.LimitStatus == model.LimitAvailable {
			continue
		}
		remaining := tracker.Remaining(cs.Card, cs.Category, asOf)
		_ = notifier.NotifyLimitStatus(ctx, cs.Card, cs.Category, cs.LimitStatus, remaining)
	}

	return nil
}

func printResponse(cmd *cobra.Command, resp model.RecommendationResponse, narrative string) {
	out := cmd.OutOrStdout()

	if resp.Primary == nil {
		fmt.Fprintf(out, "No recommendation: %s\n", resp.Reasoning)
	} else {
		fmt.Fprintf(out, "Use: %s (score %.2f)\n", resp.Primary.Card.Name, resp.Primary.TotalScore)
		fmt.Fprintf(out, "  %s\n", resp.Primary.Reasoning)
		if resp.Secondary != nil {
			fmt.Fprintf(out, "Backup: %s (score %.2f)\n", resp.Secondary.Card.Name, resp.Secondary.TotalScore)
		}
	}

	for _, w := range resp.Warnings {
		fmt.Fprintf(out, "⚠️  %s\n", w)
	}
	for _, s := range resp.Suggestions {
		fmt.Fprintf(out, "💡 %s\n", s)
	}
	if narrative != "" {
		fmt.Fprintf(out, "\n%s\n", narrative)
	}
}
