package cli

import (
	"context"
	"fmt"

	"github.com/ArowuTest/recyclepoints-backend/internal/catalog"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load waste categories, rewards and demo accounts from a TOML file",
	Long: `Load a TOML seed file. Categories and rewards are inserted or updated;
users and addresses that already exist are skipped.

  recyclepoints seed --file catalog.toml`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringP("file", "f", "catalog.toml", "Seed file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	f, err := catalog.Load(path)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	sum, err := f.Apply(ctx, store)
	if err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d categories, %d rewards, %d users, %d addresses (%d existing skipped)\n",
		sum.Categories, sum.Rewards, sum.Users, sum.Addresses, sum.Skipped)
	return nil
}
