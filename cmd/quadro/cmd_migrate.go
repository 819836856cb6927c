package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otavio/quadro/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the kv_store table and report the board namespace",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connectDB(); err != nil {
			return err
		}

		applied, err := db.RunMigrations(pool)
		if err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		for _, name := range applied {
			fmt.Printf("✓ Applied: %s\n", name)
		}

		store := db.NewStore(pool, cfg.Namespace)
		keys, err := store.Keys()
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Print("Schema is current. ")
		}
		fmt.Printf("Board %q holds %d keys in kv_store.\n", store.Namespace(), len(keys))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
