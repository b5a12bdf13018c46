package root

import (
	"context"

	"github.com/spf13/cobra"

	"prodigy/internal/tui"
)

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Interactive quest board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, sess, cmd.OutOrStdout())
		},
	}
}
