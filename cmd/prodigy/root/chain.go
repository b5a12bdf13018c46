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

func newChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Group quests into chains with a completion bonus",
	}
	cmd.AddCommand(newChainAddCmd(), newChainListCmd())
	return cmd
}

func newChainAddCmd() *cobra.Command {
	var (
		domain     string
		bonusXP    int
		bonusCoins int
	)

	cmd := &cobra.Command{
		Use:   "add <title> <quest-id>...",
		Short: "Create a chain from existing quests",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("title and at least one quest id are required")
			}
			if bonusXP < 0 || bonusCoins < 0 {
				return errors.New("bonus values must be >= 0")
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

			var chainID string
			var members int
			err = sess.Run(ctx, func(e *engine.Engine, now time.Time) error {
				var ids []string
				for _, arg := range args[1:] {
					id, err := resolveQuest(e, arg)
					if err != nil {
						return err
					}
					ids = append(ids, id)
				}
				members = len(ids)
				chainID, err = e.AddChain(engine.ChainInput{
					Title:      args[0],
					Domain:     engine.ParseDomain(domain),
					QuestIDs:   ids,
					BonusXP:    bonusXP,
					BonusCoins: bonusCoins,
				})
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				ui.Good.Render(ui.IconChain+" Added chain"), args[0],
				ui.Muted.Render(fmt.Sprintf("[%d quests, +%d XP +%d coins]", members, bonusXP, bonusCoins)),
				ui.Muted.Render(shortID(chainID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "Domain (physical|mental|technical|creative)")
	cmd.Flags().IntVar(&bonusXP, "bonus-xp", 100, "XP paid when every quest in the chain is done")
	cmd.Flags().IntVar(&bonusCoins, "bonus-coins", 50, "Coins paid when every quest in the chain is done")
	return cmd
}

func newChainListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List chains and their progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			e := sess.Engine()
			out := cmd.OutOrStdout()
			chains := e.Chains()
			fmt.Fprintln(out, ui.Heading(ui.IconChain, "Chains"))
			if len(chains) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no chains)"))
				return nil
			}
			for _, c := range chains {
				done := 0
				for _, id := range c.QuestIDs {
					if q, ok := e.Quest(id); ok && q.Status == engine.QuestCompleted {
						done++
					}
				}
				status := ui.ProgressBar(done, len(c.QuestIDs), 10)
				if c.Completed {
					status = ui.StatusText(string(engine.QuestCompleted))
				}
				fmt.Fprintf(out, "- %s %s %s %s %s\n",
					ui.Muted.Render(shortID(c.ID)), ui.DomainIcon(string(c.Domain)), c.Title, status,
					ui.Muted.Render(fmt.Sprintf("%d/%d, bonus +%d XP +%d coins", done, len(c.QuestIDs), c.BonusXP, c.BonusCoins)))
				for _, id := range c.QuestIDs {
					q, ok := e.Quest(id)
					if !ok {
						continue
					}
					fmt.Fprintf(out, "    %s %s %s\n", ui.Muted.Render(shortID(q.ID)), q.Title, ui.StatusText(string(q.Status)))
				}
			}
			return nil
		},
	}
}
