package export

import (
	"os"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"churchbot/internal/domain"
)

func TestMembersWorkbook(t *testing.T) {
	e := New(t.TempDir())
	path, err := e.MembersWorkbook([]domain.Member{
		{TelegramID: 10, Name: "Іван Петренко", Baptism: "15-03-2020", Birthday: "20-05-1990", Phone: "+380671234567"},
	})
	if err != nil {
		t.Fatalf("MembersWorkbook: %v", err)
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()

	const sheet = "Члени церкви"
	header, err := wb.GetCellValue(sheet, "B1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if header != "Ім'я" {
		t.Fatalf("header B1 = %q", header)
	}
	name, _ := wb.GetCellValue(sheet, "B2")
	if name != "Іван Петренко" {
		t.Fatalf("row B2 = %q", name)
	}
	phone, _ := wb.GetCellValue(sheet, "E2")
	if phone != "+380671234567" {
		t.Fatalf("row E2 = %q", phone)
	}
}

func TestPrayersWorkbookAnonymousFallback(t *testing.T) {
	e := New(t.TempDir())
	path, err := e.PrayersWorkbook([]domain.Prayer{
		{UserID: 10, Description: "Молитва", CreatedAt: time.Now()},
	})
	if err != nil {
		t.Fatalf("PrayersWorkbook: %v", err)
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()

	name, _ := wb.GetCellValue("Молитвенні потреби", "B2")
	if name != "Анонімно" {
		t.Fatalf("anonymous name = %q", name)
	}
}

func TestCleanupRemovesFile(t *testing.T) {
	e := New(t.TempDir())
	path, err := e.CandidatesWorkbook(nil)
	if err != nil {
		t.Fatalf("CandidatesWorkbook: %v", err)
	}
	e.Cleanup(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file still present: %v", err)
	}
}
