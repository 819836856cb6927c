package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otavio/quadro/internal/board"
	"github.com/otavio/quadro/internal/git"
	"github.com/otavio/quadro/internal/model"
)

var (
	editText         string
	editDescription  string
	editStatus       string
	editType         string
	editPriority     string
	editHours        string
	editTestStatus   string
	editAssignee     string
	editDue          string
	editLabels       string
	editDependencies string
	editCommits      string
	editLinkCommits  string
)

// editFields maps flag names to the TaskUpdate field they set.
var editFields = []struct {
	flag  string
	value *string
	set   func(u *board.TaskUpdate, v *string)
}{
	{"text", &editText, func(u *board.TaskUpdate, v *string) { u.Text = v }},
	{"description", &editDescription, func(u *board.TaskUpdate, v *string) { u.Description = v }},
	{"status", &editStatus, func(u *board.TaskUpdate, v *string) { u.Status = v }},
	{"type", &editType, func(u *board.TaskUpdate, v *string) { u.Type = v }},
	{"priority", &editPriority, func(u *board.TaskUpdate, v *string) { u.Priority = v }},
	{"hours", &editHours, func(u *board.TaskUpdate, v *string) { u.EstimatedHours = v }},
	{"test-status", &editTestStatus, func(u *board.TaskUpdate, v *string) { u.TestStatus = v }},
	{"assignee", &editAssignee, func(u *board.TaskUpdate, v *string) { u.AssignedTo = v }},
	{"due", &editDue, func(u *board.TaskUpdate, v *string) { u.DueDate = v }},
	{"labels", &editLabels, func(u *board.TaskUpdate, v *string) { u.Labels = v }},
	{"deps", &editDependencies, func(u *board.TaskUpdate, v *string) { u.Dependencies = v }},
	{"commits", &editCommits, func(u *board.TaskUpdate, v *string) { u.Commits = v }},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update task fields, or open the description in $EDITOR",
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

		var u board.TaskUpdate
		changed := false
		for _, f := range editFields {
			if cmd.Flags().Changed(f.flag) {
				f.set(&u, f.value)
				changed = true
			}
		}

		if editLinkCommits != "" {
			task, _ := b.Task(id)
			hashes, err := git.ResolveCommits(".", model.SplitList(editLinkCommits, ","))
			if err != nil {
				return err
			}
			commits := strings.Join(append(append([]string{}, task.Commits...), hashes...), "\n")
			if u.Commits != nil {
				commits = *u.Commits + "\n" + strings.Join(hashes, "\n")
			}
			u.Commits = &commits
			changed = true
		}

		if !changed {
			task, _ := b.Task(id)
			desc, err := editInEditor(task.Description)
			if err != nil {
				return err
			}
			// No-op if unchanged.
			if desc == task.Description {
				fmt.Println("No changes.")
				return nil
			}
			u.Description = &desc
		}

		t, err := b.UpdateTask(id, u)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Updated %s\n", t.ID)
		return nil
	},
}

func init() {
	f := editCmd.Flags()
	f.StringVar(&editText, "text", "", "task title")
	f.StringVar(&editDescription, "description", "", "task description")
	f.StringVar(&editStatus, "status", "", "todo, in-progress, review or done")
	f.StringVar(&editType, "type", "", "feature, bug, refactor, test, docs or setup")
	f.StringVar(&editPriority, "priority", "", "low, medium or high")
	f.StringVar(&editHours, "hours", "", "estimated hours (0-100)")
	f.StringVar(&editTestStatus, "test-status", "", "pending, passed or failed")
	f.StringVar(&editAssignee, "assignee", "", "assignee handle")
	f.StringVar(&editDue, "due", "", "due date YYYY-MM-DD (empty clears)")
	f.StringVar(&editLabels, "labels", "", "comma-separated labels (suggested: "+strings.Join(model.SuggestedLabels(), ", ")+")")
	f.StringVar(&editDependencies, "deps", "", "comma-separated task IDs this task depends on")
	f.StringVar(&editCommits, "commits", "", "commit hashes, comma- or newline-separated")
	f.StringVar(&editLinkCommits, "link-commit", "", "git refs to resolve and append to commits (comma-separated)")
	rootCmd.AddCommand(editCmd)
}

// editInEditor opens text in $EDITOR and returns the saved result.
func editInEditor(text string) (string, error) {
	tmp, err := os.CreateTemp("", "quadro-edit-*.md")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	tmp.Close()

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	c := exec.Command(editor, tmpPath)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("editor failed: %w", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}
	return string(data), nil
}
