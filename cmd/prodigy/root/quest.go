package root

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"prodigy/internal/engine"
	"prodigy/internal/ui"
)

func newQuestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Create, list, complete and fail quests",
	}
	cmd.AddCommand(
		newQuestAddCmd(),
		newQuestListCmd(),
		newQuestDoCmd(),
		newQuestFailCmd(),
		newQuestRmCmd(),
	)
	return cmd
}

// parseDeadline accepts a duration from now ("36h") or a calendar day,
// which means the end of that day in loc.
func parseDeadline(s string, now time.Time, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return nil, errors.New("deadline duration must be positive")
		}
		t := now.Add(d)
		return &t, nil
	}
	day, err := engine.ParseDay(s)
	if err != nil {
		return nil, fmt.Errorf("deadline must be a duration or YYYY-MM-DD: %q", s)
	}
	t := day.AddDays(1).Start(loc)
	return &t, nil
}

func splitCriteria(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func newQuestAddCmd() *cobra.Command {
	var (
		domain     string
		difficulty string
		desc       string
		xp         int
		coins      int
		deadline   string
		punish     string
		criteria   string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a quest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("title is required")
			}
			if xp < 0 || coins < 0 {
				return errors.New("--xp and --coins must be >= 0")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := engine.ParsePunishment(punish)
			if err != nil {
				return err
			}

			var q engine.Quest
			err = sess.Run(ctx, func(e *engine.Engine, now time.Time) error {
				dl, err := parseDeadline(deadline, now, e.Location())
				if err != nil {
					return err
				}
				id, err := e.AddQuest(engine.QuestInput{
					Title:       strings.Join(args, " "),
					Description: desc,
					Domain:      engine.ParseDomain(domain),
					Difficulty:  engine.ParseDifficulty(difficulty),
					XPReward:    xp,
					CoinReward:  coins,
					Deadline:    dl,
					Criteria:    splitCriteria(criteria),
					Punishment:  p,
				}, now)
				if err != nil {
					return err
				}
				q, _ = e.Quest(id)
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				ui.Good.Render(ui.IconPlus+" Added quest"), q.Title,
				ui.Muted.Render(fmt.Sprintf("[%s %s, %d XP, %d coins]", q.Domain, q.Difficulty, q.XPReward, q.CoinReward)),
				ui.Muted.Render(shortID(q.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "Domain (physical|mental|technical|creative)")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "D", "", "Difficulty (easy|medium|hard)")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().IntVar(&xp, "xp", 0, "XP reward (default from difficulty)")
	cmd.Flags().IntVar(&coins, "coins", 0, "Coin reward (default from difficulty)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline as a duration (48h) or day (2026-03-31)")
	cmd.Flags().StringVar(&punish, "punish", "", "Punishment on failure, e.g. coin_loss:20, xp_penalty:50, streak_break")
	cmd.Flags().StringVar(&criteria, "criteria", "", "Completion criteria separated by ';'")
	return cmd
}

func newQuestListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			e := sess.Engine()
			loc := e.Location()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Quests"))
			shown := 0
			for _, q := range e.Quests() {
				if !all && q.Status != engine.QuestActive {
					continue
				}
				shown++
				line := fmt.Sprintf("- %s %s %s %s %s",
					ui.Muted.Render(shortID(q.ID)),
					ui.KindIcon(q.IsDaily, q.ChainID != ""),
					q.Title,
					ui.Muted.Render(fmt.Sprintf("[%s %s, %d XP, %d coins]", q.Domain, q.Difficulty, q.XPReward, q.CoinReward)),
					ui.StatusText(string(q.Status)))
				if q.Deadline != nil && q.Status == engine.QuestActive {
					line += ui.Warn.Render(" due " + q.Deadline.In(loc).Format("Jan 2 15:04"))
				}
				if q.Punishment != nil {
					line += ui.Bad.Render(fmt.Sprintf(" %s %s", ui.IconFail, q.Punishment.Kind))
				}
				fmt.Fprintln(out, line)
				for _, c := range q.CompletionCriteria {
					fmt.Fprintln(out, ui.Muted.Render("    · "+c))
				}
			}
			if shown == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(nothing to do)"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include completed, failed and expired quests")
	return cmd
}

func newQuestDoCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "do <id>",
		Aliases: []string{"complete"},
		Short:   "Complete a quest and collect its rewards",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var (
				res   *engine.CompleteResult
				quest engine.Quest
			)
			err = sess.Run(ctx, func(e *engine.Engine, now time.Time) error {
				id, err := resolveQuest(e, args[0])
				if err != nil {
					return err
				}
				res = e.CompleteQuest(id, now)
				quest, _ = e.Quest(id)
				return nil
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res == nil {
				if quest.Status == engine.QuestExpired {
					fmt.Fprintln(out, ui.Warn.Render(ui.IconExpired+" Deadline passed, quest expired: ")+quest.Title)
					return nil
				}
				return fmt.Errorf("quest %s is already %s", shortID(quest.ID), quest.Status)
			}

			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconDone+" Completed"), quest.Title,
				ui.Gold.Render(fmt.Sprintf("+%d XP +%d %s", res.XPAwarded, res.CoinsAwarded, ui.IconCoin)))
			if res.SkillID == "" && res.XPAwarded == 0 {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("  no %s skill to receive XP", quest.Domain)))
			}
			if res.LevelUp {
				fmt.Fprintf(out, "  %s %d → %d\n", ui.BadgeLevelUp, res.LevelBefore, res.LevelAfter)
			}
			if res.ChainCompleted {
				fmt.Fprintf(out, "  %s chain complete %s\n", ui.IconChain,
					ui.Gold.Render(fmt.Sprintf("+%d XP +%d %s", res.ChainXP, res.ChainCoins, ui.IconCoin)))
			}
			if res.StreakAdvanced {
				fmt.Fprintf(out, "  %s all dailies done, streak %d\n", ui.IconFire, sess.Engine().User().Streak.Current)
			}
			for _, m := range res.MilestonesClaimed {
				fmt.Fprintf(out, "  %s milestone %s claimed\n", ui.IconTrophy, m)
			}
			return nil
		},
	}
}

func newQuestFailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fail <id>",
		Short: "Give up on a quest and take its punishment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var (
				res   *engine.FailResult
				quest engine.Quest
			)
			err = sess.Run(ctx, func(e *engine.Engine, now time.Time) error {
				id, err := resolveQuest(e, args[0])
				if err != nil {
					return err
				}
				res = e.FailQuest(id, now)
				quest, _ = e.Quest(id)
				return nil
			})
			if err != nil {
				return err
			}
			if res == nil {
				return fmt.Errorf("quest %s is already %s", shortID(quest.ID), quest.Status)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.Bad.Render(ui.IconFail+" Failed"), quest.Title)
			if res.CoinsLost > 0 {
				fmt.Fprintf(out, "  -%d %s\n", res.CoinsLost, ui.IconCoin)
			}
			if res.XPLost > 0 {
				fmt.Fprintf(out, "  -%d XP\n", res.XPLost)
			}
			if res.FreezeConsumed {
				fmt.Fprintln(out, "  "+ui.IconIce+" streak freeze used up")
			} else if res.StreakBroken {
				fmt.Fprintln(out, "  "+ui.Bad.Render("streak broken"))
			}
			p := res.Penalties
			fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("  penalties: -%d%% coins, redemption %d/%d", p.CoinEarningPenaltyPct, p.RedemptionDone, p.RedemptionRequired)))
			return nil
		},
	}
}

func newQuestRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a quest without consequences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return sess.Run(ctx, func(e *engine.Engine, now time.Time) error {
				id, err := resolveQuest(e, args[0])
				if err != nil {
					return err
				}
				e.RemoveQuest(id)
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Removed quest "+shortID(id)))
				return nil
			})
		},
	}
}
