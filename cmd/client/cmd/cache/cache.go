package cache

import (
	"fmt"

	"starbook/internal/app/client"
	"starbook/internal/domain/webcache"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	clearTier string
	runSweep  bool
)

var CacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the local response cache",
	Long: `Shows the size of each cache tier and performs maintenance.

The static, api, and image tiers keep assets and API responses for
offline use. The dynamic tier keeps page snapshots for up to a week.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value("app").(*client.App)
		if !ok {
			return fmt.Errorf("application is not initialized")
		}

		if clearTier != "" {
			return clear(app, webcache.Tier(clearTier))
		}

		if runSweep {
			app.Proxy().SweepDynamic()
			color.Green("Sweep complete")
			return nil
		}

		return showStats(app)
	},
}

func showStats(app *client.App) error {
	fmt.Println("=== Cache tiers ===")
	for _, tier := range webcache.Tiers() {
		count, err := app.Storage().CacheCount(tier)
		if err != nil {
			return fmt.Errorf("failed to count %s tier: %w", tier, err)
		}
		suffix := ""
		if tier == webcache.TierImage {
			suffix = fmt.Sprintf(" (cap %d)", webcache.ImageTierCap)
		}
		fmt.Printf("  %-8s %d entries%s\n", tier, count, suffix)
	}
	return nil
}

func clear(app *client.App, tier webcache.Tier) error {
	if !tier.Valid() {
		return fmt.Errorf("unknown cache tier %q", tier)
	}
	if err := app.Storage().ClearTier(tier); err != nil {
		return fmt.Errorf("failed to clear %s tier: %w", tier, err)
	}
	color.Green("Cleared the %s tier", tier)
	return nil
}

func init() {
	CacheCmd.Flags().StringVar(&clearTier, "clear", "", "clear one tier (static, dynamic, api, image)")
	CacheCmd.Flags().BoolVar(&runSweep, "sweep", false, "drop expired dynamic entries now")
}
