package cmd

import (
	"errors"

	"github.com/SundayYogurt/store_service/internal/helper"
	"github.com/SundayYogurt/store_service/internal/repository"
	"github.com/SundayYogurt/store_service/internal/seed"
	"github.com/spf13/cobra"
)

var seedFlags struct {
	products string
	noAdmin  bool
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the first admin user and the sample product catalog",
	Long: `Create the first admin user from ADMIN_EMAIL and ADMIN_PASSWORD, then
load the bundled sample products.

Examples:
  # admin plus products when the catalog is empty
  store seed

  # hide the current catalog and load the samples again
  store seed --products force

  # only the admin
  store seed --products skip`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedFlags.products, "products", string(seed.ProductsAuto), "sample products: auto, force or skip")
	seedCmd.Flags().BoolVar(&seedFlags.noAdmin, "no-admin", false, "do not create the admin user")
}

func runSeed(cmd *cobra.Command, args []string) error {
	mode, err := seed.ParseProductMode(seedFlags.products)
	if err != nil {
		return err
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}

	db, err := repository.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	if err := repository.MigrateLocked(db); err != nil {
		return err
	}
	ctx := cmd.Context()

	if !seedFlags.noAdmin {
		auth := helper.SetupAuth(cfg.JWTSecret)
		if _, err := seed.Admin(ctx, repository.NewUserRepository(db), auth, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	}

	products, err := seed.DefaultProducts()
	if err != nil {
		return err
	}
	_, err = seed.Products(ctx, repository.NewProductRepository(db), products, mode)
	return err
}
