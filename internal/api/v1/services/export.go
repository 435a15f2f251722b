package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"opencaption/internal/api/v1/dto"
	"opencaption/internal/app/export"
	"opencaption/internal/app/model"
)

// ExportServiceImpl implements the ExportService interface
type ExportServiceImpl struct {
	captions CaptionService
}

// NewExportService creates a new export service
func NewExportService(captions CaptionService) ExportService {
	return &ExportServiceImpl{
		captions: captions,
	}
}

// ExportRenderAttempts writes the render audit log in the requested format.
// An empty MediaID exports every media.
func (s *ExportServiceImpl) ExportRenderAttempts(ctx context.Context, req dto.ExportRequest, writer io.Writer) error {
	attempts, err := s.captions.ListRenderAttempts(ctx, req.MediaID)
	if err != nil {
		return err
	}
	if attempts == nil {
		attempts = []model.RenderAttempt{}
	}

	switch req.Format {
	case "", "csv":
		csvWriter := csv.NewWriter(writer)
		if err := csvWriter.Write(export.Header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		for _, a := range attempts {
			if err := csvWriter.Write(export.Row(a)); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		csvWriter.Flush()
		return csvWriter.Error()
	case "json":
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(attempts)
	case "xlsx":
		return export.WriteRenderAttempts(attempts, writer)
	default:
		return fmt.Errorf("unsupported export format: %s", req.Format)
	}
}
