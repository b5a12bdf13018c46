package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prodigy/internal/config"
	"prodigy/internal/ui"
)

const Version = "0.1.0"

var (
	configPath string
	userFlag   string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "prodigy",
	Short:         "Prodigy: level up real-life skills with quests, streaks and coins",
	Long:          "Prodigy is a local-first progression engine: skills gain XP from quests, daily quests build streaks, and coins buy boosts.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

func loadConfig() error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if userFlag != "" {
		loaded.User.ID = userFlag
	}
	cfg = loaded
	return nil
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/prodigy/prodigy.yaml or ./prodigy.yaml)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Act as this user id (overrides user.id)")

	rootCmd.AddCommand(
		newStatusCmd(),
		newSkillCmd(),
		newXPCmd(),
		newQuestCmd(),
		newChainCmd(),
		newShopCmd(),
		newBuyCmd(),
		newUseCmd(),
		newBoostsCmd(),
		newTickCmd(),
		newPenaltiesCmd(),
		newHistoryCmd(),
		newBoardCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
