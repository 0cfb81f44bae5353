// Package sheet exports drafts as xlsx workbooks.
package sheet

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"

	"github.com/xuri/excelize/v2"
)

const (
	SurveySheet    = "Survey"
	QuestionsSheet = "Questions"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var questionHeader = []interface{}{"Order", "ID", "Type", "Type Name", "Title", "Description", "Required", "Options", "Settings"}

// Build lays the survey out on two sheets. The caller closes the returned file.
func Build(s survey.Survey, registry *questiontype.Registry) (*excelize.File, error) {
	f := excelize.NewFile()

	err := f.SetSheetName("Sheet1", SurveySheet)
	if err != nil {
		return nil, closeWith(f, err)
	}
	index, err := f.NewSheet(QuestionsSheet)
	if err != nil {
		return nil, closeWith(f, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, closeWith(f, err)
	}

	err = writeSurvey(f, s, bold)
	if err != nil {
		return nil, closeWith(f, err)
	}
	err = writeQuestions(f, s.Questions, registry, bold)
	if err != nil {
		return nil, closeWith(f, err)
	}

	f.SetActiveSheet(index)
	return f, nil
}

// Write streams the workbook of s to w.
func Write(w io.Writer, s survey.Survey, registry *questiontype.Registry) error {
	f, err := Build(s, registry)
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrExportFailed, err)
	}
	defer func() {
		_ = f.Close()
	}()

	err = f.Write(w)
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrExportFailed, err)
	}
	return nil
}

// Filename derives a download name from the survey title.
func Filename(s survey.Survey) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, strings.TrimSpace(s.Title))
	if name == "" {
		name = "survey"
	}
	return name + ".xlsx"
}

func writeSurvey(f *excelize.File, s survey.Survey, bold int) error {
	settings := s.Settings
	rows := [][]interface{}{
		{"Field", "Value"},
		{"ID", s.ID.String()},
		{"Title", s.Title},
		{"Description", survey.PlainText(s.Description)},
		{"Status", string(s.Status)},
		{"Questions", len(s.Questions)},
		{"Allow Anonymous", settings.AllowAnonymous},
		{"Require Login", settings.RequireLogin},
		{"Show Progress", settings.ShowProgress},
		{"Allow Back", settings.AllowBack},
		{"Auto Save", settings.AutoSave},
		{"Max Responses", settings.MaxResponses},
		{"Response Timeout", settings.ResponseTimeout},
		{"Theme", settings.Theme},
	}
	for _, key := range slices.Sorted(maps.Keys(settings.Colors)) {
		rows = append(rows, []interface{}{"Color " + key, settings.Colors[key]})
	}

	err := writeRows(f, SurveySheet, rows)
	if err != nil {
		return err
	}
	err = f.SetCellStyle(SurveySheet, "A1", "B1", bold)
	if err != nil {
		return err
	}
	return f.SetColWidth(SurveySheet, "A", "A", 20)
}

func writeQuestions(f *excelize.File, questions []survey.Question, registry *questiontype.Registry, bold int) error {
	rows := make([][]interface{}, 0, len(questions)+1)
	rows = append(rows, questionHeader)

	for _, q := range questions {
		labels := make([]string, len(q.Options))
		for i, o := range q.Options {
			labels[i] = o.Label
		}
		settings, err := json.Marshal(q.Settings)
		if err != nil {
			return err
		}
		rows = append(rows, []interface{}{
			q.Order + 1,
			q.ID.String(),
			string(q.Type),
			registry.Name(q.Type),
			q.Title,
			survey.PlainText(q.Description),
			q.Required,
			strings.Join(labels, "\n"),
			string(settings),
		})
	}

	err := writeRows(f, QuestionsSheet, rows)
	if err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(questionHeader), 1)
	if err != nil {
		return err
	}
	err = f.SetCellStyle(QuestionsSheet, "A1", last, bold)
	if err != nil {
		return err
	}
	return f.SetColWidth(QuestionsSheet, "E", "F", 40)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		err = f.SetSheetRow(sheet, cell, &row)
		if err != nil {
			return err
		}
	}
	return nil
}

func closeWith(f *excelize.File, err error) error {
	_ = f.Close()
	return err
}
