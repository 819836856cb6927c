package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/otavio/quadro/internal/model"
)

var (
	statusProject string
	statusFilter  string
	statusJSON    bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Table view of all tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		var want model.Status
		if statusFilter != "" {
			st, err := model.ParseStatus(statusFilter)
			if err != nil {
				return err
			}
			want = st
		}

		b, err := openBoard(newCLINotifier())
		if err != nil {
			return err
		}

		tasks := b.Tasks()
		if ref := projectRef(statusProject); ref != "" {
			id, err := b.ResolveProjectID(ref)
			if err != nil {
				return err
			}
			tasks = b.ProjectTasks(id)
		}
		if want != "" {
			kept := tasks[:0]
			for _, t := range tasks {
				if t.Status == want {
					kept = append(kept, t)
				}
			}
			tasks = kept
		}

		if statusJSON {
			data, err := json.MarshalIndent(tasks, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		printTaskTable(tasks)

		var counts []string
		for _, c := range b.ColumnCounts() {
			counts = append(counts, fmt.Sprintf("%s %d (%d%%)", c.Status.Label(), c.Count, c.Percent))
		}
		fmt.Printf("\n%s\n", strings.Join(counts, "  "))
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusProject, "project", "", "filter by project ID or name")
	statusCmd.Flags().StringVar(&statusFilter, "status", "", "filter by status")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func printTaskTable(tasks []model.Task) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  \tID\tTITLE\tTYPE\tPRIORITY\tSTATUS\n")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			statusSymbol(t.Status), truncateID(t.ID), t.Text, t.Type, t.Priority, t.Status)
	}
	w.Flush()
}

func statusSymbol(status model.Status) string {
	switch status {
	case model.StatusTodo:
		return "○"
	case model.StatusInProgress:
		return "●"
	case model.StatusReview:
		return "◎"
	case model.StatusDone:
		return "✓"
	default:
		return "?"
	}
}

func truncateID(id string) string {
	if len(id) > 20 {
		return id[:20]
	}
	return id
}
