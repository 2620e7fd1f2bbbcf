package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Sev3364/Planning-app/internal/model"
	"github.com/Sev3364/Planning-app/internal/parser"
	"github.com/Sev3364/Planning-app/internal/service/planner"
)

// Options 输入目录与文件名
type Options struct {
	Dir         string
	DaysFile    string
	TrackAFile  string
	TrackBFile  string
	PinnedFile  string
	DateLayouts []string

	// Workbook 合并输入工作簿；存在时优先于四个单独文件
	Workbook string
}

// FileReport 单个输入文件的读取结果
type FileReport struct {
	Role string `json:"role"`
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

// Report 导入报告
type Report struct {
	Dir      string        `json:"dir"`
	Files    []FileReport  `json:"files"`
	Duration time.Duration `json:"duration"`
}

// Result 导入结果
type Result struct {
	Input  planner.Input
	Report Report
}

// Loader 从输入目录读取日期、两个轨道的模块需求与固定模块
type Loader struct {
	opts   Options
	logger *zap.Logger
}

// NewLoader 创建加载器
func NewLoader(opts Options, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{opts: opts, logger: logger}
}

// inputTables 四个角色对应的表
type inputTables struct {
	days   *parser.Table
	demand map[model.Track]*parser.Table
	pinned *parser.Table
	paths  map[string]string
}

// Load 读取全部输入；任何数据错误都是致命的
func (l *Loader) Load() (*Result, error) {
	start := time.Now()

	var (
		tables *inputTables
		err    error
	)
	if wb := l.workbookPath(); wb != "" {
		l.logger.Info("reading combined workbook", zap.String("path", wb))
		tables, err = readWorkbookTables(wb)
	} else {
		tables, err = l.readFileTables()
	}
	if err != nil {
		return nil, err
	}

	report := Report{Dir: l.opts.Dir}

	days, err := daysFromTable(tables.days, l.opts.DateLayouts)
	if err != nil {
		return nil, err
	}
	report.Files = append(report.Files, FileReport{Role: "days", Path: tables.paths["days"], Rows: days.Len()})

	demands := make(map[model.Track]*model.Demand, 2)
	for _, track := range model.Tracks {
		demand, err := demandFromTable(tables.demand[track], track)
		if err != nil {
			return nil, err
		}
		demands[track] = demand
		role := "track_" + track.String()
		report.Files = append(report.Files, FileReport{Role: role, Path: tables.paths[role], Rows: len(demand.Modules)})
	}

	pinned, rows, err := pinnedFromTable(tables.pinned, days, l.opts.DateLayouts)
	if err != nil {
		return nil, err
	}
	report.Files = append(report.Files, FileReport{Role: "pinned", Path: tables.paths["pinned"], Rows: rows})

	report.Duration = time.Since(start)
	for _, f := range report.Files {
		l.logger.Info("input loaded", zap.String("role", f.Role), zap.String("path", f.Path), zap.Int("rows", f.Rows))
	}

	return &Result{
		Input: planner.Input{
			Days:   days,
			A:      demands[model.TrackA],
			B:      demands[model.TrackB],
			Pinned: pinned,
		},
		Report: report,
	}, nil
}

func (l *Loader) workbookPath() string {
	if l.opts.Workbook == "" {
		return ""
	}
	path := filepath.Join(l.opts.Dir, l.opts.Workbook)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func (l *Loader) readFileTables() (*inputTables, error) {
	tables := &inputTables{
		demand: make(map[model.Track]*parser.Table, 2),
		paths:  make(map[string]string, 4),
	}

	read := func(role, name string) (*parser.Table, error) {
		path, err := ResolvePath(l.opts.Dir, name)
		if err != nil {
			return nil, err
		}
		tables.paths[role] = path
		return readTable(path)
	}

	var err error
	if tables.days, err = read("days", l.opts.DaysFile); err != nil {
		return nil, err
	}
	if tables.demand[model.TrackA], err = read("track_A", l.opts.TrackAFile); err != nil {
		return nil, err
	}
	if tables.demand[model.TrackB], err = read("track_B", l.opts.TrackBFile); err != nil {
		return nil, err
	}
	if tables.pinned, err = read("pinned", l.opts.PinnedFile); err != nil {
		return nil, err
	}
	return tables, nil
}

// readWorkbookTables 按表头识别工作表角色；需求表的轨道由工作表名决定，
// 无法判断时按出现顺序依次分配给 A、B
func readWorkbookTables(path string) (*inputTables, error) {
	sheets, err := parser.ReadWorkbookTables(path)
	if err != nil {
		return nil, &InputError{File: path, Err: err}
	}

	tables := &inputTables{
		demand: make(map[model.Track]*parser.Table, 2),
		paths:  make(map[string]string, 4),
	}
	recognizer := parser.NewSheetRecognizer()

	var unassigned []*parser.Table
	for _, sheet := range sheets {
		rec := recognizer.Recognize(sheet.Sheet, sheet.Headers)
		switch rec.Role {
		case parser.SheetRoleDays:
			if tables.days == nil {
				tables.days = sheet
			}
		case parser.SheetRolePinned:
			if tables.pinned == nil {
				tables.pinned = sheet
			}
		case parser.SheetRoleDemand:
			track, err := model.ParseTrack(rec.Track)
			if err != nil || tables.demand[track] != nil {
				unassigned = append(unassigned, sheet)
				continue
			}
			tables.demand[track] = sheet
		}
	}
	for _, track := range model.Tracks {
		if tables.demand[track] == nil && len(unassigned) > 0 {
			tables.demand[track] = unassigned[0]
			unassigned = unassigned[1:]
		}
	}

	roles := map[string]*parser.Table{
		"days":    tables.days,
		"track_A": tables.demand[model.TrackA],
		"track_B": tables.demand[model.TrackB],
		"pinned":  tables.pinned,
	}
	for _, role := range []string{"days", "track_A", "track_B", "pinned"} {
		t := roles[role]
		if t == nil {
			return nil, &InputError{File: path, Err: fmt.Errorf("%w: no sheet for %s", ErrMissingFile, role)}
		}
		tables.paths[role] = t.Source
	}
	return tables, nil
}

// ResolvePath 定位输入文件；配置的 .csv 不存在时尝试同名 .xlsx
func ResolvePath(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		alt := strings.TrimSuffix(path, filepath.Ext(path)) + ".xlsx"
		if _, err := os.Stat(alt); err == nil {
			return alt, nil
		}
	}
	return "", &InputError{File: path, Err: ErrMissingFile}
}

// LoadDays 读取日期列表（列 Jour），按时间升序返回
func LoadDays(path string, layouts []string) (model.DaySequence, error) {
	table, err := readTable(path)
	if err != nil {
		return model.DaySequence{}, err
	}
	return daysFromTable(table, layouts)
}

func daysFromTable(table *parser.Table, layouts []string) (model.DaySequence, error) {
	if table.Empty() {
		return model.DaySequence{}, &InputError{File: table.Source, Err: ErrEmptyInput}
	}
	col, err := requireColumn(table, "Jour", parser.DayAliases)
	if err != nil {
		return model.DaySequence{}, err
	}

	days := make([]model.Day, 0, len(table.Rows))
	for i := range table.Rows {
		d, err := table.ParseCellDay(table.Cell(i, col), layouts)
		if err != nil {
			return model.DaySequence{}, &InputError{File: table.Source, Line: table.Line(i), Err: err}
		}
		days = append(days, d)
	}
	return model.NewDaySequence(days), nil
}

// LoadDemand 读取单个轨道的模块需求（列 Module, NbSeances），保持文件顺序
func LoadDemand(path string, track model.Track) (*model.Demand, error) {
	table, err := readTable(path)
	if err != nil {
		return nil, err
	}
	return demandFromTable(table, track)
}

func demandFromTable(table *parser.Table, track model.Track) (*model.Demand, error) {
	if table.Empty() {
		return nil, &InputError{File: table.Source, Err: ErrEmptyInput}
	}
	moduleCol, err := requireColumn(table, "Module", parser.ModuleAliases)
	if err != nil {
		return nil, err
	}
	sessionCol, err := requireColumn(table, "NbSeances", parser.SessionAliases)
	if err != nil {
		return nil, err
	}

	demand := model.NewDemand(track)
	for i := range table.Rows {
		name := table.Cell(i, moduleCol)
		if name == "" {
			return nil, &InputError{File: table.Source, Line: table.Line(i), Err: model.ErrInvalidModule}
		}
		raw := table.Cell(i, sessionCol)
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &InputError{File: table.Source, Line: table.Line(i),
				Err: fmt.Errorf("module %q: %w (got %q)", name, model.ErrMalformedDemand, raw)}
		}
		if err := demand.Add(name, n); err != nil {
			return nil, &InputError{File: table.Source, Line: table.Line(i), Err: err}
		}
	}
	return demand, nil
}

// LoadPinned 读取固定模块（列 Module, Jour）。文件可以没有数据行；
// 每个日期必须存在于 days 中。返回读取的行数。
func LoadPinned(path string, days model.DaySequence, layouts []string) (*model.PinnedAssignment, int, error) {
	table, err := readTable(path)
	if err != nil {
		return nil, 0, err
	}
	return pinnedFromTable(table, days, layouts)
}

func pinnedFromTable(table *parser.Table, days model.DaySequence, layouts []string) (*model.PinnedAssignment, int, error) {
	pinned := model.NewPinnedAssignment()
	if table.Empty() {
		return pinned, 0, nil
	}
	moduleCol, err := requireColumn(table, "Module", parser.ModuleAliases)
	if err != nil {
		return nil, 0, err
	}
	dayCol, err := requireColumn(table, "Jour", parser.DayAliases)
	if err != nil {
		return nil, 0, err
	}

	for i := range table.Rows {
		name := table.Cell(i, moduleCol)
		rawDay := table.Cell(i, dayCol)
		if name == "" || rawDay == "" {
			return nil, 0, &InputError{File: table.Source, Line: table.Line(i),
				Err: fmt.Errorf("incomplete row (module=%q, day=%q)", name, rawDay)}
		}
		d, err := table.ParseCellDay(rawDay, layouts)
		if err != nil {
			return nil, 0, &InputError{File: table.Source, Line: table.Line(i), Err: err}
		}
		if !days.Contains(d) {
			return nil, 0, &InputError{File: table.Source, Line: table.Line(i),
				Err: fmt.Errorf("pinned day %s for module %q: %w", rawDay, name, planner.ErrUnknownDay)}
		}
		if err := pinned.Add(name, d); err != nil {
			return nil, 0, &InputError{File: table.Source, Line: table.Line(i), Err: err}
		}
	}
	return pinned, len(table.Rows), nil
}

func readTable(path string) (*parser.Table, error) {
	table, err := parser.ReadTable(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &InputError{File: path, Err: ErrMissingFile}
		}
		return nil, &InputError{File: path, Err: err}
	}
	return table, nil
}

func requireColumn(table *parser.Table, want string, aliases []string) (int, error) {
	col := table.Column(aliases...)
	if col < 0 {
		return -1, &InputError{File: table.Source,
			Err: fmt.Errorf("%w: %s (found %v)", ErrMissingColumn, want, table.Headers)}
	}
	return col, nil
}
