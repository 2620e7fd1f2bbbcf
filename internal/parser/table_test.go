package parser

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadDelimited_SemicolonWithBOM(t *testing.T) {
	t.Parallel()

	data := "\ufeffModule ; Nb Seances\nM1;2\n\nM2 ; 3\n"
	table, err := ReadDelimited(strings.NewReader(data), "modules_A.csv")
	if err != nil {
		t.Fatalf("ReadDelimited: %v", err)
	}

	if got := table.Column("module"); got != 0 {
		t.Fatalf("module column=%d", got)
	}
	if got := table.Column("nbseances"); got != 1 {
		t.Fatalf("nbseances column=%d", got)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows=%d, want 2", len(table.Rows))
	}
	if got := table.Cell(1, 0); got != "M2" {
		t.Fatalf("Cell(1,0)=%q", got)
	}
	// 空行被跳过，行号仍指向源文件
	if got := table.Line(1); got != 4 {
		t.Fatalf("Line(1)=%d, want 4", got)
	}
	if got := table.Cell(5, 0); got != "" {
		t.Fatalf("out of range cell=%q", got)
	}
}

func TestReadDelimited_Windows1252(t *testing.T) {
	t.Parallel()

	// "Séance" 以 Windows-1252 编码（é = 0xE9）
	data := []byte("Module,Jour\nS\xe9ance,01/09/2025\n")
	table, err := ReadDelimited(bytes.NewReader(data), "liens.csv")
	if err != nil {
		t.Fatalf("ReadDelimited: %v", err)
	}
	if got := table.Cell(0, 0); got != "Séance" {
		t.Fatalf("Cell=%q, want Séance", got)
	}
}

func TestReadTable_Workbook(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jours.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Jour"},
		{"02/09/2025"},
		{""},
		{"01/09/2025"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if table.Column("jour") != 0 {
		t.Fatalf("headers=%v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows=%v", table.Rows)
	}
	if table.Line(1) != 4 {
		t.Fatalf("Line(1)=%d, want 4", table.Line(1))
	}
}

func TestReadTable_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := ReadTable(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReadWorkbookTables(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "entrees.xlsx")
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), "jours"); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	_ = f.SetCellValue("jours", "A1", "Jour")
	_ = f.SetCellValue("jours", "A2", "01/09/2025")
	if _, err := f.NewSheet("vide"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	tables, err := ReadWorkbookTables(path)
	if err != nil {
		t.Fatalf("ReadWorkbookTables: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("tables=%d", len(tables))
	}
	if tables[0].Sheet != "jours" || tables[0].Source != "entrees.xlsx#jours" || len(tables[0].Rows) != 1 {
		t.Fatalf("first=%+v", tables[0])
	}
	if tables[1].Headers != nil || !tables[1].Empty() {
		t.Fatalf("second=%+v", tables[1])
	}
}
