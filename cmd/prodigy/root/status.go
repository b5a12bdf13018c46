package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prodigy/internal/engine"
	"prodigy/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, rank, coins, streak and domain progress",
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

			nextReq := engine.XPRequiredForLevel(u.Level + 1)
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Status of "+sess.Identity().UserID))
			fmt.Fprintln(out, ui.LabelValue("Level", u.Level))
			fmt.Fprintln(out, ui.LabelValue("Total XP", fmt.Sprintf("%d (next level at %d, %d to go)", u.TotalXP, nextReq, max(0, nextReq-u.TotalXP))))
			rankLine := ui.RankText(string(u.Rank))
			if next, at, ok := engine.NextRank(u.Rank); ok {
				rankLine += ui.Muted.Render(fmt.Sprintf(" (%s at %d XP)", next, at))
			}
			fmt.Fprintln(out, ui.LabelValue("Rank", rankLine))
			fmt.Fprintln(out, ui.LabelValue("Coins", fmt.Sprintf("%s %d", ui.IconCoin, u.Coins)))

			streak := fmt.Sprintf("%s %d days (best %d, coin x%.2f)", ui.IconFire, u.Streak.Current, u.Streak.Longest, engine.StreakMultiplier(u.Streak.Current))
			if u.Streak.FreezeActive {
				streak += " " + ui.IconIce + " freeze until " + string(u.Streak.FreezeExpiresDay)
			}
			fmt.Fprintln(out, ui.LabelValue("Streak", streak))
			if m, ok := e.NextMilestone(); ok {
				fmt.Fprintln(out, ui.LabelValue("Next milestone", fmt.Sprintf("%d days → %d coins", m.ThresholdDays, m.RewardCoins)))
			}
			if u.EquippedFrame != "" || len(u.EquippedBadges) > 0 {
				fmt.Fprintln(out, ui.LabelValue("Equipped", strings.Join(append([]string{u.EquippedFrame}, u.EquippedBadges...), " ")))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📊 Domains"))
			for _, d := range engine.Domains {
				p := e.DomainProgress(d)
				fmt.Fprintf(out, "- %s %-9s %s lvl %d %s %s\n",
					ui.DomainIcon(string(d)), d, ui.RankText(string(p.Rank)), p.Level,
					ui.ProgressBar(p.XP, p.XPToNextLevel, 12),
					ui.Muted.Render(fmt.Sprintf("quests %d/%d (%.0f%%)", p.CompletedQuests, p.TotalQuests, p.AverageScore)))
			}
			fmt.Fprintln(out, "")

			if pen := u.Penalties; pen.CoinEarningPenaltyPct > 0 || pen.RedemptionRequired > 0 {
				fmt.Fprintln(out, ui.H2.Render(ui.IconWarn+" Penalties"))
				fmt.Fprintf(out, "- %s -%d%% coins, -%d%% streak decay\n", ui.Bad.Render("active:"), pen.CoinEarningPenaltyPct, pen.StreakDecayPct)
				fmt.Fprintf(out, "- %s %d/%d completions\n", ui.Key.Render("redemption:"), pen.RedemptionDone, pen.RedemptionRequired)
				if e.RedemptionSatisfied() {
					fmt.Fprintln(out, "- "+ui.Good.Render("redeemed")+ui.Muted.Render(" (run `prodigy penalties reset`)"))
				}
				fmt.Fprintln(out, "")
			}

			if boosts := e.ActiveBoosts(now); len(boosts) > 0 {
				fmt.Fprintln(out, ui.H2.Render(ui.IconBolt+" Boosts"))
				for _, b := range boosts {
					fmt.Fprintf(out, "- %s x%.1f until %s\n", b.Kind, b.Multiplier, b.ExpiresAt.In(e.Location()).Format("Jan 2 15:04"))
				}
				fmt.Fprintln(out, "")
			}

			achievements := e.Achievements()
			fmt.Fprintln(out, ui.LabelValue(ui.IconTrophy+" Achievements", fmt.Sprintf("%d/%d", engine.CountEarned(achievements), len(achievements))))
			return nil
		},
	}

	return cmd
}
