package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otavio/quadro/internal/board"
)

var (
	addProject  string
	addType     string
	addPriority string
	addFile     string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to a project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBoard(newCLINotifier())
		if err != nil {
			return err
		}

		projectID, err := resolveProjectFlag(b, addProject)
		if err != nil {
			return err
		}

		t, err := b.AddTask(board.TaskFields{
			ProjectID: projectID,
			Text:      strings.Join(args, " "),
			Type:      addType,
			Priority:  addPriority,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created: %s  %q\n", t.ID, t.Text)
		return nil
	},
}

var addManyCmd = &cobra.Command{
	Use:   "add-many",
	Short: "Add one task per line read from stdin or --file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBoard(newCLINotifier())
		if err != nil {
			return err
		}

		projectID, err := resolveProjectFlag(b, addProject)
		if err != nil {
			return err
		}

		var r io.Reader = os.Stdin
		if addFile != "" && addFile != "-" {
			f, err := os.Open(addFile)
			if err != nil {
				return fmt.Errorf("opening task list: %w", err)
			}
			defer f.Close()
			r = f
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("reading task list: %w", err)
		}

		tasks, err := b.AddMultipleTasks(projectID, string(data), addType, addPriority)
		if err != nil {
			return err
		}

		for _, t := range tasks {
			fmt.Printf("Created: %s  %q\n", t.ID, t.Text)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{addCmd, addManyCmd} {
		c.Flags().StringVar(&addProject, "project", "", "project ID or name (or QUADRO_PROJECT env)")
		c.Flags().StringVar(&addType, "type", "feature", "feature, bug, refactor, test, docs or setup")
		c.Flags().StringVar(&addPriority, "priority", "low", "low, medium or high")
		rootCmd.AddCommand(c)
	}
	addManyCmd.Flags().StringVar(&addFile, "file", "", "read tasks from file instead of stdin")
}

// resolveProjectFlag turns a --project value into a project ID. An empty
// value falls back to the configured default and, failing that, is passed
// through so the board reports the missing selection.
func resolveProjectFlag(b *board.Board, flag string) (string, error) {
	ref := projectRef(flag)
	if ref == "" {
		return "", nil
	}
	id, err := b.ResolveProjectID(ref)
	if err != nil {
		return "", fmt.Errorf("resolving project %q: %w", ref, err)
	}
	return id, nil
}
