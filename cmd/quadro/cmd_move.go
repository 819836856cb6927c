package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otavio/quadro/internal/model"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <status>",
	Short: "Move a task to another column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := model.ParseStatus(args[1])
		if err != nil {
			return err
		}

		b, err := openBoard(newCLINotifier())
		if err != nil {
			return err
		}

		id, err := b.ResolveTaskID(args[0])
		if err != nil {
			return err
		}

		moved, err := b.UpdateTaskStatus(id, status)
		if err != nil {
			return err
		}
		if !moved {
			fmt.Printf("%s already in %s\n", id, status)
			return nil
		}
		fmt.Printf("%s %s → %s\n", statusSymbol(status), id, status)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBoard(newCLINotifier())
		if err != nil {
			return err
		}

		id, err := b.ResolveTaskID(args[0])
		if err != nil {
			return err
		}

		if _, err := b.DeleteTask(id); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd, rmCmd)
}
