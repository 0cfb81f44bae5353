package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"NYCU-SDC/survey-builder/internal/survey"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func blankSurvey(title string) survey.Survey {
	value := survey.New()
	if title != "" {
		value.Title = title
	}
	return value
}

func readSurveyFile(path string) (survey.Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return survey.Survey{}, err
	}
	var value survey.Survey
	err = json.Unmarshal(data, &value)
	if err != nil {
		return survey.Survey{}, fmt.Errorf("%s: %w", path, err)
	}
	return value, nil
}

func writeSurveyFile(path string, value survey.Survey) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(cmd *cobra.Command) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	return tw
}
