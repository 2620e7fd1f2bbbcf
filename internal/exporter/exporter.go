package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/Sev3364/Planning-app/internal/model"
)

const (
	FileTrackA     = "planning_A.csv"
	FileTrackB     = "planning_B.csv"
	FileShortfalls = "modules_non_places.csv"

	SheetTrackA     = "Planning A"
	SheetTrackB     = "Planning B"
	SheetShortfalls = "Non Places"
)

var (
	gridHeader      = []string{"Jour", "Module"}
	shortfallHeader = []string{"Module", "NbNonPlaces"}
)

// Options 导出选项
type Options struct {
	DateLayout string
	FreeLabel  string
	WriteXLSX  bool
	XLSXFile   string
}

// Result 导出结果
type Result struct {
	Dir   string   `json:"dir"`
	Files []string `json:"files"`
}

// Exporter 排课结果导出器：两个轨道的 CSV、未排课时 CSV 与可选的 Excel 工作簿
type Exporter struct {
	opts Options
}

// NewExporter 创建导出器
func NewExporter(opts Options) *Exporter {
	if opts.DateLayout == "" {
		opts.DateLayout = "02/01/2006"
	}
	if opts.XLSXFile == "" {
		opts.XLSXFile = "planning.xlsx"
	}
	return &Exporter{opts: opts}
}

// Export 写出全部文件到 dir
func (e *Exporter) Export(plan *model.Plan, dir string, progress func(ProgressEvent)) (*Result, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	res := &Result{Dir: dir}

	reportProgress(progress, 0, "start")

	for i, track := range model.Tracks {
		name := FileTrackA
		if track == model.TrackB {
			name = FileTrackB
		}
		path := filepath.Join(dir, name)
		if err := writeCSV(path, gridHeader, e.GridRows(plan, track)); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
		reportProgress(progress, 20+i*20, "planning_"+track.String())
	}

	path := filepath.Join(dir, FileShortfalls)
	if err := writeCSV(path, shortfallHeader, ShortfallRows(plan)); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, path)
	reportProgress(progress, 70, "shortfalls")

	if e.opts.WriteXLSX {
		f, err := e.BuildWorkbook(plan)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		path := filepath.Join(dir, e.opts.XLSXFile)
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("save %s: %w", path, err)
		}
		res.Files = append(res.Files, path)
		reportProgress(progress, 95, "workbook")
	}

	reportProgress(progress, 100, "done")
	return res, nil
}

// GridRows 轨道的 (日期, 模块) 行，空闲日写入 FreeLabel
func (e *Exporter) GridRows(plan *model.Plan, track model.Track) [][]string {
	slots := plan.Slots(track)
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, []string{
			s.Day.Format(e.opts.DateLayout),
			s.Occupant.Label(e.opts.FreeLabel),
		})
	}
	return rows
}

// ShortfallRows 未排课时行，按处理顺序
func ShortfallRows(plan *model.Plan) [][]string {
	rows := make([][]string, 0, len(plan.Shortfalls))
	for _, s := range plan.Shortfalls {
		rows = append(rows, []string{s.Module, strconv.Itoa(s.Missing)})
	}
	return rows
}

// BuildWorkbook 生成三个工作表：Planning A / Planning B / Non Places
func (e *Exporter) BuildWorkbook(plan *model.Plan) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{SheetTrackA, gridHeader, e.GridRows(plan, model.TrackA)},
		{SheetTrackB, gridHeader, e.GridRows(plan, model.TrackB)},
		{SheetShortfalls, shortfallHeader, ShortfallRows(plan)},
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				_ = f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := fillSheet(f, sh.name, sh.header, sh.rows); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetRowStyle(sh.name, 1, 1, headerStyle); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("style header of %s: %w", sh.name, err)
		}
		if err := f.SetColWidth(sh.name, "A", "B", 18); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("set column width of %s: %w", sh.name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func fillSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			// 未排课时数写为数值
			if sheet == SheetShortfalls && c == 1 {
				n, _ := strconv.Atoi(v)
				if err := f.SetCellValue(sheet, cell, n); err != nil {
					return err
				}
				continue
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCSV 写 UTF-8 CSV（逗号分隔）
func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
