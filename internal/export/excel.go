// Package export builds xlsx workbooks for the admin listing commands.
// Files are written to the OS temp directory and removed by Cleanup after
// the bot has sent them.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"log/slog"

	"churchbot/core/logger"
	"churchbot/internal/domain"
)

const dateLayout = "02.01.2006"

// Excel generates admin spreadsheets with excelize.
type Excel struct {
	dir string
	log *slog.Logger
}

// New returns an exporter writing into dir; an empty dir means os.TempDir.
func New(dir string) *Excel {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Excel{dir: dir, log: logger.Component("export")}
}

func (e *Excel) MembersWorkbook(members []domain.Member) (string, error) {
	return e.write("members", "Члени церкви",
		[]string{"№", "Ім'я", "Дата хрещення", "День народження", "Телефон", "Telegram ID"},
		len(members), func(i int) []any {
			m := members[i]
			return []any{i + 1, m.Name, m.Baptism, m.Birthday, m.Phone, m.TelegramID}
		})
}

func (e *Excel) CandidatesWorkbook(candidates []domain.Member) (string, error) {
	return e.write("candidates", "Кандидати",
		[]string{"№", "Ім'я", "День народження", "Телефон", "Telegram ID"},
		len(candidates), func(i int) []any {
			m := candidates[i]
			return []any{i + 1, m.Name, m.Birthday, m.Phone, m.TelegramID}
		})
}

func (e *Excel) NeedsWorkbook(needs []domain.Need) (string, error) {
	return e.write("needs", "Заявки на допомогу",
		[]string{"№", "Ім'я", "Хрещення", "Телефон", "Опис", "Дата", "Статус", "Telegram ID"},
		len(needs), func(i int) []any {
			n := needs[i]
			return []any{i + 1, n.Name, n.Baptism, n.Phone, n.Description,
				n.CreatedAt.Format(dateLayout), string(n.Status), n.UserID}
		})
}

func (e *Excel) PrayersWorkbook(prayers []domain.Prayer) (string, error) {
	return e.write("prayers", "Молитвенні потреби",
		[]string{"№", "Ім'я", "Опис", "Дата", "Telegram ID"},
		len(prayers), func(i int) []any {
			p := prayers[i]
			name := "Анонімно"
			if p.Name != nil && *p.Name != "" {
				name = *p.Name
			}
			return []any{i + 1, name, p.Description, p.CreatedAt.Format(dateLayout), p.UserID}
		})
}

// Cleanup removes a generated workbook. A failed removal is logged, not
// returned; the file sits in the temp directory either way.
func (e *Excel) Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		logger.LogEvent(logger.Background(), e.log, slog.LevelWarn, "export.cleanup_failed",
			slog.String("path", path),
			slog.String("err", err.Error()))
	}
}

func (e *Excel) write(name, sheet string, headers []string, rows int, row func(i int) []any) (string, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	const defaultSheet = "Sheet1"
	idx, err := wb.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("new sheet: %w", err)
	}
	wb.SetActiveSheet(idx)
	if err := wb.DeleteSheet(defaultSheet); err != nil {
		return "", fmt.Errorf("delete default sheet: %w", err)
	}

	head := make([]any, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	if err := wb.SetSheetRow(sheet, "A1", &head); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < rows; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		values := row(i)
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			return "", fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	path := filepath.Join(e.dir,
		fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("2006-01-02")))
	if err := wb.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}
