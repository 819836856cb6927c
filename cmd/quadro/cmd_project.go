package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/otavio/quadro/internal/board"
	"github.com/otavio/quadro/internal/git"
	"github.com/otavio/quadro/internal/model"
)

var (
	projectDescription string
	projectRepo        string
	projectTech        string
	projectName        string
	projectJSON        bool
	projectFromGit     bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBoard(newCLINotifier())
		if err != nil {
			return err
		}

		repo := projectRepo
		if repo == "" && projectFromGit {
			repo, err = git.RemoteURL(".", "origin")
			if err != nil {
				return err
			}
		}

		p, err := b.CreateProject(board.ProjectFields{
			Name:        strings.Join(args, " "),
			Description: projectDescription,
			Repository:  repo,
			TechStack:   projectTech,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created: %s  %q\n", p.ID, p.Name)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBoard(newCLINotifier())
		if err != nil {
			return err
		}

		projects := b.SortedProjects()
		if projectJSON {
			data, err := json.MarshalIndent(projects, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID\tNAME\tTASKS\tDONE\tPROGRESS\n")
		for _, p := range projects {
			s := b.ProjectStats(p.ID)
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", truncateID(p.ID), p.Name, s.Total, s.Completed, progressBar(s.Progress))
		}
		w.Flush()
		return nil
	},
}

// ProjectOutput is the JSON structure for `quadro project show --json`.
type ProjectOutput struct {
	Project model.Project      `json:"project"`
	Stats   board.ProjectStats `json:"stats"`
	Tasks   []model.Task       `json:"tasks"`
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Print a project and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBoard(newCLINotifier())
		if err != nil {
			return err
		}

		id, err := b.ResolveProjectID(args[0])
		if err != nil {
			return err
		}
		p, _ := b.Project(id)
		stats := b.ProjectStats(id)
		tasks := b.ProjectTasks(id)

		if projectJSON {
			out := ProjectOutput{Project: p, Stats: stats, Tasks: tasks}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Println(heading("Project", p.ID))
		fmt.Printf("Name:     %s\n", p.Name)
		if p.Description != "" {
			fmt.Printf("About:    %s\n", p.Description)
		}
		if p.Repository != "" {
			fmt.Printf("Repo:     %s\n", p.Repository)
		}
		if len(p.TechStack) > 0 {
			fmt.Printf("Stack:    %s\n", strings.Join(p.TechStack, ", "))
		}
		fmt.Printf("Version:  %s\n", p.Version)
		fmt.Printf("Created:  %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Printf("Progress: %s  %d/%d done\n", progressBar(stats.Progress), stats.Completed, stats.Total)

		if len(tasks) > 0 {
			fmt.Println()
			printTaskTable(tasks)
		}
		return nil
	},
}

var projectEditCmd = &cobra.Command{
	Use:   "edit <id|name>",
	Short: "Update project fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBoard(newCLINotifier())
		if err != nil {
			return err
		}

		id, err := b.ResolveProjectID(args[0])
		if err != nil {
			return err
		}

		var u board.ProjectUpdate
		flags := cmd.Flags()
		if flags.Changed("name") {
			u.Name = &projectName
		}
		if flags.Changed("description") {
			u.Description = &projectDescription
		}
		if flags.Changed("repo") {
			u.Repository = &projectRepo
		}
		if flags.Changed("tech") {
			u.TechStack = &projectTech
		}
		if u == (board.ProjectUpdate{}) {
			fmt.Println("No changes.")
			return nil
		}

		p, err := b.UpdateProject(id, u)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Updated %s\n", p.ID)
		return nil
	},
}

var projectRmCmd = &cobra.Command{
	Use:   "rm <id|name>",
	Short: "Delete a project and all of its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBoard(newCLINotifier())
		if err != nil {
			return err
		}

		id, err := b.ResolveProjectID(args[0])
		if err != nil {
			return err
		}
		n := len(b.ProjectTasks(id))

		if _, err := b.DeleteProject(id); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted %s (%d tasks)\n", id, n)
		return nil
	},
}

func init() {
	projectAddCmd.Flags().StringVar(&projectDescription, "description", "", "project description")
	projectAddCmd.Flags().StringVar(&projectRepo, "repo", "", "repository URL")
	projectAddCmd.Flags().StringVar(&projectTech, "tech", "", "comma-separated tech stack")
	projectAddCmd.Flags().BoolVar(&projectFromGit, "repo-from-git", false, "use the origin remote of the current repository")

	projectListCmd.Flags().BoolVar(&projectJSON, "json", false, "output as JSON")
	projectShowCmd.Flags().BoolVar(&projectJSON, "json", false, "output as JSON")

	projectEditCmd.Flags().StringVar(&projectName, "name", "", "new name")
	projectEditCmd.Flags().StringVar(&projectDescription, "description", "", "new description")
	projectEditCmd.Flags().StringVar(&projectRepo, "repo", "", "new repository URL")
	projectEditCmd.Flags().StringVar(&projectTech, "tech", "", "new comma-separated tech stack")

	projectCmd.AddCommand(projectAddCmd, projectListCmd, projectShowCmd, projectEditCmd, projectRmCmd)
	rootCmd.AddCommand(projectCmd)
}

// progressBar renders a ten-cell bar followed by the percentage.
func progressBar(percent int) string {
	filled := max(0, min(10, percent/10))
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled) + fmt.Sprintf(" %3d%%", percent)
}
