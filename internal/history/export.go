package history

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"
)

// ExportSheetName is the worksheet written by ExportXLSX
const ExportSheetName = "Transcriptions"

var exportHeader = []string{
	"ID", "URL", "Title", "Engine", "Model", "Language", "Last Conversion Time",
	"Audio Duration", "Output Path", "Transcription", "Error Message",
}

// ExportXLSX writes entries to an Excel workbook at outputPath
func ExportXLSX(entries []Entry, outputPath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(ExportSheetName)
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, title := range exportHeader {
		headerRow.AddCell().Value = title
	}

	for _, e := range entries {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(e.ID)
		row.AddCell().Value = e.URL
		row.AddCell().Value = e.Title
		row.AddCell().Value = e.Engine
		row.AddCell().Value = e.Model
		row.AddCell().Value = e.Language
		row.AddCell().Value = e.LastConversionTime.Format(time.RFC3339)
		row.AddCell().Value = fmt.Sprintf("%.2f", e.AudioDuration)
		row.AddCell().Value = e.OutputPath
		row.AddCell().Value = e.Transcription
		row.AddCell().Value = e.ErrorMessage
	}

	if err := file.Save(outputPath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputPath, err)
	}
	return nil
}
