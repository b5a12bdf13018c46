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

func newPenaltiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "penalties",
		Short: "Show or clear missed-quest penalties",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p := sess.Engine().User().Penalties
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconWarn, "Penalties"))
			fmt.Fprintln(out, ui.LabelValue("Missed", p.ConsecutiveMissedDays))
			fmt.Fprintln(out, ui.LabelValue("Coin penalty", fmt.Sprintf("%d%%", p.CoinEarningPenaltyPct)))
			fmt.Fprintln(out, ui.LabelValue("Streak decay", fmt.Sprintf("%d%%", p.StreakDecayPct)))
			fmt.Fprintln(out, ui.LabelValue("Redemption", fmt.Sprintf("%d/%d", p.RedemptionDone, p.RedemptionRequired)))
			if !p.LastMissedDay.IsZero() {
				fmt.Fprintln(out, ui.LabelValue("Last missed", string(p.LastMissedDay)))
			}
			return nil
		},
	}
	cmd.AddCommand(newPenaltiesResetCmd())
	return cmd
}

func newPenaltiesResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear penalties once redemption is complete",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			admin := sess.Identity().IsAdmin()
			err = sess.Run(ctx, func(e *engine.Engine, now time.Time) error {
				if !admin && !e.RedemptionSatisfied() {
					p := e.User().Penalties
					return fmt.Errorf("redemption incomplete: %d/%d quests done", p.RedemptionDone, p.RedemptionRequired)
				}
				if e.User().Penalties == (engine.Penalties{}) {
					return errors.New("no penalties to reset")
				}
				e.ResetPenalties(now)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconSparkle+" Penalties cleared"))
			return nil
		},
	}
}
