package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cardwise/internal/common"
	"cardwise/internal/config"
	"cardwise/internal/model"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage your card portfolio",
	}

	cmd.AddCommand(cardsListCmd())
	cmd.AddCommand(cardsAddCmd())
	cmd.AddCommand(cardsSeedCmd())

	return cmd
}

func cardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx, config.Load())
			if err != nil {
				return common.NewUserError("Failed to open storage", err)
			}
			defer func() { _ = store.Close() }()

			cards, err := store.GetCards(ctx)
			if err != nil {
				return common.NewUserError("Failed to load cards", err)
			}

			out := cmd.OutOrStdout()
			if len(cards) == 0 {
				fmt.Fprintln(out, "No cards stored. Try 'cardwise cards seed' or 'cardwise cards add'.")
				return nil
			}

			for _, card := range cards {
				state := "active"
				if !card.IsActive {
					state = "inactive"
				}
				fmt.Fprintf(out, "%s  %s (%s, %s)\n", card.ID, card.Name, card.Family, state)
				for _, rc := range card.RewardCategories {
					if !rc.IsActive {
						continue
					}
					fmt.Fprintf(out, "    %.1fx %s on %s\n", rc.Multiplier, rc.PointType, rc.Category)
				}
				for _, sl := range card.SpendingLimits {
					fmt.Fprintf(out, "    %s limit $%.0f, spent $%.2f (%s reset)\n", sl.Category, sl.Limit, sl.CurrentSpending, sl.ResetCycle)
				}
			}
			return nil
		},
	}
}

func cardsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card from a JSON definition",
		Long:  `Read a card definition (name, reward categories, spending limits, optional quarterly bonus) from a JSON file and store it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("file")
			if path == "" {
				return fmt.Errorf("--file is required")
			}

			data, err := os.ReadFile(path) // #nosec G304 -- user-supplied path is the point
			if err != nil {
				return common.NewUserError("Failed to read card file", err)
			}

			var card model.Card
			if err := json.Unmarshal(data, &card); err != nil {
				return common.NewUserError("Failed to parse card file", err)
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx, config.Load())
			if err != nil {
				return common.NewUserError("Failed to open storage", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveCard(ctx, &card); err != nil {
				return common.NewUserError("Failed to save card", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", card.Name, card.ID)
			return nil
		},
	}

	cmd.Flags().String("file", "", "Path to a JSON card definition")

	return cmd
}

func cardsSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store a small sample portfolio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx, config.Load())
			if err != nil {
				return common.NewUserError("Failed to open storage", err)
			}
			defer func() { _ = store.Close() }()

			for _, card := range sampleCards() {
				card := card
				if err := store.SaveCard(ctx, &card); err != nil {
					return common.NewUserError(fmt.Sprintf("Failed to seed %s", card.Name), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s\n", card.Name)
			}
			return nil
		},
	}
}

func sampleCards() []model.Card {
	now := time.Now()
	return []model.Card{
		{
			Name:     "Amex Gold",
			Family:   "American Express",
			IsActive: true,
			RewardCategories: []model.RewardCategory{
				{Category: model.CategoryGroceries, Multiplier: 4.0, PointType: model.PointsMembershipRewards, IsActive: true},
				{Category: model.CategoryDining, Multiplier: 4.0, PointType: model.PointsMembershipRewards, IsActive: true},
			},
			SpendingLimits: []model.SpendingLimit{
				{Category: model.CategoryGroceries, Limit: 1000, ResetCycle: model.ResetMonthly, ResetDate: now.AddDate(0, 1, 0)},
			},
		},
		{
			Name:     "Chase Freedom",
			Family:   "Chase",
			IsActive: true,
			RewardCategories: []model.RewardCategory{
				{Category: model.CategoryGeneral, Multiplier: 1.5, PointType: model.PointsUltimateRewards, IsActive: true},
			},
			QuarterlyBonus: &model.QuarterlyBonus{
				Category:   model.CategoryGas,
				PointType:  model.PointsUltimateRewards,
				Multiplier: 5.0,
				Limit:      1500,
				Quarter:    model.QuarterOf(now),
				Year:       now.Year(),
			},
		},
		{
			Name:     "Citi Double Cash",
			Family:   "Citi",
			IsActive: true,
			RewardCategories: []model.RewardCategory{
				{Category: model.CategoryGeneral, Multiplier: 2.0, PointType: model.PointsCashback, IsActive: true},
			},
		},
	}
}
