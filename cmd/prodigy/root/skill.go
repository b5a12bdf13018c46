package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"prodigy/internal/engine"
	"prodigy/internal/ui"
)

func newSkillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Manage skills",
	}
	cmd.AddCommand(newSkillAddCmd(), newSkillListCmd(), newSkillRmCmd())
	return cmd
}

func newSkillAddCmd() *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a skill",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
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

			var id string
			d := engine.ParseDomain(domain)
			err = sess.Run(ctx, func(e *engine.Engine, now time.Time) error {
				id, err = e.AddSkill(engine.SkillInput{Name: args[0], Domain: d}, now)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render(ui.IconPlus+" Added skill"), args[0], ui.DomainIcon(string(d)), ui.Muted.Render(shortID(id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "Domain (physical|mental|technical|creative)")
	return cmd
}

func newSkillListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List skills by domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			skills := sess.Engine().Skills()
			out := cmd.OutOrStdout()
			if len(skills) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no skills yet)"))
				return nil
			}
			for _, d := range engine.Domains {
				first := true
				for _, sk := range skills {
					if sk.Domain != d {
						continue
					}
					if first {
						fmt.Fprintln(out, ui.H2.Render(ui.DomainIcon(string(d))+" "+string(d)))
						first = false
					}
					fmt.Fprintf(out, "- %s %s lvl %d %s %s\n",
						ui.Muted.Render(shortID(sk.ID)), sk.Name, sk.Level,
						ui.ProgressBar(sk.XP, sk.XPToNextLevel, 12),
						ui.Muted.Render(fmt.Sprintf("%d/%d, lifetime %d", sk.XP, sk.XPToNextLevel, sk.TotalXP)))
				}
			}
			return nil
		},
	}
}

func newSkillRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return sess.Run(ctx, func(e *engine.Engine, now time.Time) error {
				id, err := resolveSkill(e, args[0])
				if err != nil {
					return err
				}
				e.RemoveSkill(id)
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Removed skill "+shortID(id)))
				return nil
			})
		},
	}
}

func newXPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xp <skill-id> <amount>",
		Short: "Award XP to a skill directly",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("skill id and amount are required")
			}
			if _, err := strconv.ParseFloat(args[1], 64); err != nil {
				return errors.New("amount must be a number")
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

			amount, _ := strconv.ParseFloat(args[1], 64)
			return sess.Run(ctx, func(e *engine.Engine, now time.Time) error {
				id, err := resolveSkill(e, args[0])
				if err != nil {
					return err
				}
				levels, ok := e.AwardXP(id, amount, now)
				if !ok {
					return fmt.Errorf("amount %s was not applied", args[1])
				}
				sk, _ := e.Skill(id)
				line := fmt.Sprintf("%s %s +%d XP", ui.Good.Render(ui.IconBolt), sk.Name, int(amount))
				if levels > 0 {
					line += fmt.Sprintf(" %s now lvl %d", ui.BadgeLevelUp, sk.Level)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
				return nil
			})
		},
	}

	return cmd
}
