package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/otavio/quadro/internal/notify"
	"github.com/otavio/quadro/internal/persist"
	"github.com/otavio/quadro/internal/tui"
)

var boardProject string

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive kanban board",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !tui.IsTTY(os.Stdout) {
			return fmt.Errorf("board requires a TTY")
		}

		notes := notify.NewRecorder()
		b, err := openBoard(notes)
		if err != nil {
			return err
		}

		var opts []tui.Option
		if ref := projectRef(boardProject); ref != "" {
			id, err := b.ResolveProjectID(ref)
			if err != nil {
				return err
			}
			opts = append(opts, tui.WithProject(id))
		}

		if interval := cfg.Autosave.Duration; interval > 0 {
			saver, err := persist.NewAutoSaver(interval, func() { b.Save() })
			if err != nil {
				return err
			}
			saver.Start()
			defer saver.Stop()
			logger.Debug("autosave scheduled", "every", interval)
		}

		if err := tui.Run(cmd.Context(), tui.New(b, notes, opts...)); err != nil {
			return fmt.Errorf("running board: %w", err)
		}
		if !b.Save() {
			return fmt.Errorf("saving board on exit failed")
		}
		return nil
	},
}

func init() {
	boardCmd.Flags().StringVar(&boardProject, "project", "", "show only this project (ID or name)")
	rootCmd.AddCommand(boardCmd)
}
