package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"prodigy/internal/ui"
)

var eventIcons = map[string]string{
	"quest_completed":   ui.IconDone,
	"quest_failed":      ui.IconFail,
	"quest_expired":     ui.IconExpired,
	"level_up":          ui.IconSparkle,
	"rank_up":           ui.IconTrophy,
	"chain_completed":   ui.IconChain,
	"streak_advanced":   ui.IconFire,
	"streak_broken":     ui.IconWarn,
	"freeze_consumed":   ui.IconIce,
	"milestone_claimed": ui.IconTrophy,
	"item_purchased":    ui.IconShop,
	"item_activated":    ui.IconBolt,
	"daily_refresh":     ui.IconDaily,
	"penalties_reset":   ui.IconScroll,
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, gw, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := gw.History(ctx, sess.Identity().UserID, limit)
			if err != nil {
				return err
			}

			loc := sess.Engine().Location()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "History"))
			if len(records) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(nothing yet)"))
				return nil
			}
			for _, r := range records {
				icon, ok := eventIcons[r.Kind]
				if !ok {
					icon = ui.IconInfo
				}
				line := fmt.Sprintf("%s %s %-17s", ui.Muted.Render(r.At.In(loc).Format("Jan 02 15:04")), icon, r.Kind)
				if r.Note != "" {
					line += " " + r.Note
				}
				if r.Amount != 0 {
					line += ui.Gold.Render(fmt.Sprintf(" %+d", r.Amount))
				}
				if r.Ref != "" {
					line += ui.Muted.Render(" " + shortID(r.Ref))
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of events to show")
	return cmd
}
