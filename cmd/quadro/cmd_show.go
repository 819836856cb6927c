package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/otavio/quadro/internal/model"
)

// ShowOutput is the JSON structure for `quadro show --json`.
type ShowOutput struct {
	Task    model.Task     `json:"task"`
	Project *model.Project `json:"project"`
}

var showJSON bool

var headingStyle = lipgloss.NewStyle().Bold(true)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print every field of a task",
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
		task, _ := b.Task(id)
		var project *model.Project
		if p, ok := b.Project(task.ProjectID); ok {
			project = &p
		}

		if showJSON {
			out := ShowOutput{Task: task, Project: project}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printTask(task, project)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(showCmd)
}

func printTask(task model.Task, project *model.Project) {
	fmt.Println(heading("Task", task.ID))
	fmt.Printf("Title:    %s\n", task.Text)
	fmt.Printf("Status:   %s %s\n", statusSymbol(task.Status), task.Status)
	fmt.Printf("Type:     %s\n", task.Type.Label())
	fmt.Printf("Priority: %s\n", task.Priority)
	if project != nil {
		fmt.Printf("Project:  %s (%s)\n", project.Name, project.ID)
	} else {
		fmt.Printf("Project:  No Project\n")
	}
	fmt.Printf("Tests:    %s\n", task.TestStatus)
	if task.AssignedTo != "" {
		fmt.Printf("Assignee: %s\n", task.AssignedTo)
	}
	if task.EstimatedHours > 0 {
		fmt.Printf("Estimate: %gh\n", task.EstimatedHours)
	}
	if task.DueDate != nil {
		fmt.Printf("Due:      %s\n", *task.DueDate)
	}
	if len(task.Labels) > 0 {
		names := make([]string, len(task.Labels))
		for i, l := range task.Labels {
			names[i] = model.LabelName(l)
		}
		fmt.Printf("Labels:   %s\n", strings.Join(names, ", "))
	}
	if len(task.Dependencies) > 0 {
		fmt.Printf("Depends:  %s\n", strings.Join(task.Dependencies, ", "))
	}
	if len(task.Commits) > 0 {
		fmt.Printf("Commits:  %s\n", strings.Join(task.Commits, ", "))
	}
	fmt.Printf("Created:  %s\n", task.CreatedAt.Local().Format("2006-01-02 15:04"))

	if task.Description != "" {
		fmt.Println()
		fmt.Println("Description:")
		fmt.Println(task.Description)
	}
}

// heading renders a section rule such as "── Task: fix-login-a1b2c3 ───".
func heading(kind, id string) string {
	label := fmt.Sprintf("── %s: %s ", kind, id)
	return headingStyle.Render(label + strings.Repeat("─", max(0, 60-len(id))))
}
