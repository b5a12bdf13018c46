package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"prodigy/internal/engine"
	"prodigy/internal/ui"
)

func newTickCmd() *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Run the daily cycle and show today's dailies",
		Long:  "Every command already runs the daily cycle first. tick reports what it did and can record a progress note.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var res *engine.TickResult
			err = sess.Run(ctx, func(e *engine.Engine, now time.Time) error {
				res = e.Tick(now)
				e.AddProgressNote(note, now)
				return nil
			})
			if err != nil {
				return err
			}

			e := sess.Engine()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconDaily, "Today "+string(res.Day)))
			for _, q := range e.Quests() {
				if !q.IsDaily {
					continue
				}
				fmt.Fprintf(out, "- %s %s %s %s %s\n",
					ui.Muted.Render(shortID(q.ID)), ui.DomainIcon(string(q.Domain)), q.Title,
					ui.Muted.Render(fmt.Sprintf("[%d XP, %d coins]", q.XPReward, q.CoinReward)),
					ui.StatusText(string(q.Status)))
			}
			if note != "" {
				fmt.Fprintln(out, ui.Muted.Render(ui.IconScroll+" note saved"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Record a progress note")
	return cmd
}
