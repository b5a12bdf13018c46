package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"prodigy/internal/engine"
	"prodigy/internal/ui"
)

func newShopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "List items for sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			e := sess.Engine()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconShop, fmt.Sprintf("Shop (%s %d)", ui.IconCoin, e.User().Coins)))
			category := ""
			for _, it := range e.Shop() {
				if it.Category != category {
					category = it.Category
					fmt.Fprintln(out, ui.H2.Render(category))
				}
				owned := ""
				if e.Owns(it.ID) {
					owned = ui.Good.Render(" owned")
				}
				fmt.Fprintf(out, "- %-18s %s %s%s\n", it.ID, ui.Gold.Render(fmt.Sprintf("%5d", it.Price)), it.Description, owned)
			}
			return nil
		},
	}
}

func newBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <item-id>",
		Short: "Buy an item with coins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var left int
			err = sess.Run(ctx, func(e *engine.Engine, now time.Time) error {
				it, ok := e.Catalog().Item(args[0])
				switch {
				case !ok:
					return fmt.Errorf("unknown item %q", args[0])
				case it.RewardOnly:
					return fmt.Errorf("%s cannot be bought", it.Name)
				case e.Owns(it.ID):
					return fmt.Errorf("you already own %s", it.Name)
				}
				if !e.PurchaseItem(it.ID, now) {
					return fmt.Errorf("not enough coins: %s costs %d, you have %d", it.Name, it.Price, e.User().Coins)
				}
				left = e.User().Coins
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconShop+" Bought"), args[0], ui.Muted.Render(fmt.Sprintf("(%d coins left)", left)))
			return nil
		},
	}
}

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <item-id>",
		Short: "Activate a consumable or toggle a cosmetic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var item engine.ShopItem
			err = sess.Run(ctx, func(e *engine.Engine, now time.Time) error {
				it, ok := e.Catalog().Item(args[0])
				if !ok {
					return fmt.Errorf("unknown item %q", args[0])
				}
				if !e.ActivateItem(it.ID, now) {
					return errors.New("you do not own " + it.Name)
				}
				item = it
				return nil
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case item.Kind == engine.ItemStreakFreeze:
				fmt.Fprintln(out, ui.Good.Render(ui.IconIce+" Streak freeze active"))
			case item.Kind.IsConsumable():
				fmt.Fprintf(out, "%s x%.1f for %dh\n", ui.Good.Render(ui.IconBolt+" "+item.Name+" active"), item.Value, item.DurationHours)
			default:
				fmt.Fprintln(out, ui.Good.Render(ui.IconSparkle+" Toggled "+item.Name))
			}
			return nil
		},
	}
}

func newBoostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boosts",
		Short: "Show active boosts and owned items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			e := sess.Engine()
			now := sess.Now()
			u := e.User()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconBolt, "Boosts"))
			boosts := e.ActiveBoosts(now)
			if len(boosts) == 0 && !u.Streak.FreezeActive {
				fmt.Fprintln(out, ui.Muted.Render("(none active)"))
			}
			for _, b := range boosts {
				fmt.Fprintf(out, "- %s x%.1f, %s left\n", b.Kind, b.Multiplier, b.ExpiresAt.Sub(now).Round(time.Minute))
			}
			if u.Streak.FreezeActive {
				fmt.Fprintf(out, "- %s streak freeze through %s\n", ui.IconIce, u.Streak.FreezeExpiresDay)
			}
			fmt.Fprintln(out, ui.LabelValue("XP multiplier", fmt.Sprintf("x%.1f", e.BestMultiplier(engine.BoostXP, now))))
			fmt.Fprintln(out, ui.LabelValue("Coin multiplier", fmt.Sprintf("x%.1f", e.BestMultiplier(engine.BoostCoin, now))))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("Inventory"))
			if len(u.OwnedItemIDs) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
			}
			for _, id := range u.OwnedItemIDs {
				fmt.Fprintln(out, "- "+id)
			}
			return nil
		},
	}
}
