package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/engine"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
	"github.com/noah-isme/campus-timetable-api/pkg/export"
)

type exportTimetableProvider interface {
	GetByDate(ctx context.Context, date, course string, semester int) (*models.Timetable, error)
}

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders stored timetables as CSV or PDF files. A non-empty
// storage directory keeps an archival copy of every rendered file.
type ExportService struct {
	timetables exportTimetableProvider
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	storageDir string
	logger     *zap.Logger
}

// NewExportService constructs an ExportService. storageDir may be empty to
// disable archival copies.
func NewExportService(timetables exportTimetableProvider, storageDir string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		timetables: timetables,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		storageDir: storageDir,
		logger:     logger,
	}
}

// Export renders the run covering the date in the requested format. An empty
// section exports every section; format defaults to CSV.
func (s *ExportService) Export(ctx context.Context, date, course string, semester int, section, format string) (*ExportFile, error) {
	tt, err := s.timetables.GetByDate(ctx, date, course, semester)
	if err != nil {
		return nil, err
	}

	var result engine.Result
	if err := json.Unmarshal(tt.Data, &result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored timetable is unreadable")
	}

	sections := sortedKeys(result.Grid)
	if section != "" {
		if _, ok := result.Grid[section]; !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("section %s not in timetable", section))
		}
		sections = []string{section}
	}

	dataset := buildDataset(&result, sections)

	base := fmt.Sprintf("timetable_%s_%s_sem%d", tt.Course, tt.StartDate, tt.Semester)
	if section != "" {
		base += "_" + section
	}

	var file *ExportFile
	switch format {
	case "pdf":
		content, err := s.pdf.Render(dataset, fmt.Sprintf("Timetable %s semester %d, week of %s", tt.Course, tt.Semester, tt.StartDate))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		file = &ExportFile{FileName: base + ".pdf", ContentType: "application/pdf", Content: content}
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		file = &ExportFile{FileName: base + ".csv", ContentType: "text/csv", Content: content}
	}

	s.archive(file)
	return file, nil
}

// archive keeps a copy of the rendered file under the storage directory.
// Failures are logged; the client download is not affected.
func (s *ExportService) archive(file *ExportFile) {
	if s.storageDir == "" {
		return
	}
	if err := os.MkdirAll(s.storageDir, 0o755); err != nil {
		s.logger.Warn("failed to create export storage dir", zap.String("dir", s.storageDir), zap.Error(err))
		return
	}
	path := filepath.Join(s.storageDir, file.FileName)
	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		s.logger.Warn("failed to archive export", zap.String("path", path), zap.Error(err))
		return
	}
	s.logger.Debug("export archived", zap.String("path", path))
}

// buildDataset flattens grids into one row per section and day, one column
// per time slot.
func buildDataset(result *engine.Result, sections []string) export.Dataset {
	headers := append([]string{"Section / Day"}, engine.TimeSlots()...)

	var rows []map[string]string
	for _, section := range sections {
		for _, day := range result.Days {
			row := map[string]string{"Section / Day": fmt.Sprintf("%s %s", section, day)}
			for _, slot := range engine.TimeSlots() {
				cell, ok := result.Grid[section][day][slot]
				if !ok {
					continue
				}
				row[slot] = formatCell(cell)
			}
			rows = append(rows, row)
		}
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

func formatCell(cell engine.Assignment) string {
	value := cell.Subject
	if cell.Teacher != "" && cell.Teacher != engine.TeacherRespective {
		value += " / " + cell.Teacher
	}
	if cell.Room != "" {
		value += " @" + cell.Room
	}
	return value
}
