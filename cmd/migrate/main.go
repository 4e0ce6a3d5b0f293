package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"lifelog/internal/config"
	"lifelog/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply or roll back the life record schema",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the yaml config file")

	withDB := func(fn func(cmd *cobra.Command, db *gorm.DB) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			db, err := database.Init(cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close(db)
			return fn(cmd, db)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Create or update all tables",
			Args:  cobra.NoArgs,
			RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
				if err := database.AutoMigrate(db); err != nil {
					return err
				}
				cmd.Println("schema is up to date")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Drop media, records and checkins tables",
			Args:  cobra.NoArgs,
			RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
				if err := database.DropAll(db); err != nil {
					return err
				}
				cmd.Println("all tables dropped")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show which tables exist",
			Args:  cobra.NoArgs,
			RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
				status, err := database.Status(db)
				if err != nil {
					return err
				}
				for _, s := range status {
					state := "missing"
					if s.Exists {
						state = "present"
					}
					cmd.Printf("%-16s %s\n", s.Table, state)
				}
				return nil
			}),
		},
	)
	return root
}
