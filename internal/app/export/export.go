// Package export writes render attempt audit rows to a spreadsheet.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/tealeg/xlsx"

	"opencaption/internal/app/model"
)

// Header is the column order shared by every export format.
var Header = []string{"ID", "Media ID", "Style", "Resolution", "Created At", "Success", "Output Path", "Artifact URL", "Error"}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Row flattens one attempt in Header order.
func Row(a model.RenderAttempt) []string {
	return []string{
		fmt.Sprint(a.ID),
		a.MediaID,
		a.StyleID,
		deref(a.Resolution),
		a.CreatedAt.UTC().Format(time.RFC3339),
		fmt.Sprint(a.Success),
		a.OutputPath,
		deref(a.ArtifactURL),
		deref(a.Error),
	}
}

func workbook(attempts []model.RenderAttempt) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Render Attempts")
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range Header {
		headerRow.AddCell().Value = h
	}
	for _, a := range attempts {
		row := sheet.AddRow()
		for _, v := range Row(a) {
			row.AddCell().Value = v
		}
	}
	return file, nil
}

// RenderAttemptsToExcel writes one row per attempt, in the given order.
func RenderAttemptsToExcel(attempts []model.RenderAttempt, outputFilePath string) error {
	file, err := workbook(attempts)
	if err != nil {
		return err
	}
	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save %s: %w", outputFilePath, err)
	}
	return nil
}

// WriteRenderAttempts streams the workbook to w.
func WriteRenderAttempts(attempts []model.RenderAttempt, w io.Writer) error {
	file, err := workbook(attempts)
	if err != nil {
		return err
	}
	return file.Write(w)
}
