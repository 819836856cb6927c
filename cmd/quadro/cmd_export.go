package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/otavio/quadro/internal/model"
)

var (
	exportFormat string
	exportOutput string
)

// ExportDocument is the layout written by `quadro export`.
type ExportDocument struct {
	ExportedAt time.Time       `json:"exportedAt"`
	Projects   []model.Project `json:"projects"`
	Tasks      []model.Task    `json:"tasks"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every project and task as JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBoard(newCLINotifier())
		if err != nil {
			return err
		}

		projects, tasks := b.Snapshot()
		doc := ExportDocument{ExportedAt: time.Now().UTC(), Projects: projects, Tasks: tasks}

		data, err := encodeExport(doc, exportFormat)
		if err != nil {
			return err
		}

		if exportOutput == "" || exportOutput == "-" {
			if _, err := os.Stdout.Write(data); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			return nil
		}

		// WriteFile also reports a failed close.
		if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Printf("✓ Exported %d projects, %d tasks to %s\n", len(projects), len(tasks), exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

// encodeExport renders doc in format. YAML keeps the JSON field names by
// round-tripping through a generic value.
func encodeExport(doc ExportDocument, format string) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}

	switch format {
	case "json", "":
		return append(data, '\n'), nil
	case "yaml", "yml":
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("decoding export: %w", err)
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want json or yaml)", format)
	}
}
