package main

import (
	"fmt"
	"os"

	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/database"
	"github.com/junaidrashid-git/storefront-api/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	configPath string
	verbose    bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront API server and maintenance commands",
	Long: `storefront serves the shop API: products, cart, wishlist, checkout,
orders and the admin back-office, plus the live theme feed.

Settings come from an optional YAML file (--config), then .env, then the
process environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		logger, err := logging.New(cfg.Environment, cfg.LogLevel)
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := openAndMigrate()
		if err != nil {
			return err
		}
		zap.L().Info("✅ migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the built-in themes and hero banner into empty tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openAndMigrate()
		if err != nil {
			return err
		}
		return database.Seed(db)
	},
}

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an account with admin rights",
	Long: `Creates the first back-office account. Later admins can be granted
from the admin API.

Example:
  storefront create-admin --email owner@example.com --password s3cret!`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openAndMigrate()
		if err != nil {
			return err
		}
		user, err := auth.CreateUser(cmd.Context(), db, adminEmail, adminPassword, adminName, true)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		zap.L().Info("✅ admin created", zap.String("email", user.Email), zap.String("id", user.ID))
		return nil
	},
}

func openAndMigrate() (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (min 6 characters)")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "full name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
