package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cardwise/internal/common"
	"cardwise/internal/config"
	"cardwise/internal/model"
)

func spendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spend",
		Short: "Record spending against a card's limits",
		Long: `Apply a purchase amount to a card's spending-limit consumption.

This is the only path that mutates current spending; recommendations
always read the stored snapshot.`,
		RunE: runSpend,
	}

	cmd.Flags().String("card", "", "Card ID")
	cmd.Flags().String("category", "", "Spending category")
	cmd.Flags().Float64("amount", 0, "Purchase amount")
	_ = cmd.MarkFlagRequired("card")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runSpend(cmd *cobra.Command, _ []string) error {
	cardID, _ := cmd.Flags().GetString("card")
	category, _ := cmd.Flags().GetString("category")
	amount, _ := cmd.Flags().GetFloat64("amount")

	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx, config.Load())
	if err != nil {
		return common.NewUserError("Failed to open storage", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.RecordSpending(ctx, cardID, model.Category(category), amount, time.Now()); err != nil {
		return common.NewUserError("Failed to record spending", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recorded $%.2f of %s spending on %s\n", amount, category, cardID)
	return nil
}
