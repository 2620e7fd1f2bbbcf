package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Sev3364/Planning-app/internal/model"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeHeader 规范化列名：去 BOM、去全部空白、转小写
// 例如 " Nb Seances " -> "nbseances"
func NormalizeHeader(name string) string {
	name = strings.ReplaceAll(name, "\ufeff", "")
	name = strings.ReplaceAll(name, "\u00a0", " ")
	name = reSpaces.ReplaceAllString(name, "")
	return strings.ToLower(name)
}

// MatchHeader 规范化后的列名是否命中任一别名
func MatchHeader(name string, aliases []string) bool {
	n := NormalizeHeader(name)
	for _, a := range aliases {
		if n == NormalizeHeader(a) {
			return true
		}
	}
	return false
}

// SniffDelimiter 根据表头行判断分隔符（, 或 ;），无法判断时用逗号
func SniffDelimiter(headerLine string) rune {
	if strings.Count(headerLine, ";") > strings.Count(headerLine, ",") {
		return ';'
	}
	return ','
}

// ParseDay 按给定格式依次尝试解析日期（CSV 等文本输入）
func ParseDay(text string, layouts []string) (model.Day, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Day{}, fmt.Errorf("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return model.NewDay(t), nil
		}
	}
	return model.Day{}, fmt.Errorf("invalid date %q (expected %s)", text, strings.Join(layouts, " or "))
}

// ParseSheetDay 工作表单元格中的日期：先按格式解析，
// 再按 Excel 日期序列号解析（未格式化的日期单元格）
func ParseSheetDay(text string, layouts []string) (model.Day, error) {
	d, err := ParseDay(text, layouts)
	if err == nil {
		return d, nil
	}
	if serial, perr := strconv.ParseFloat(strings.TrimSpace(text), 64); perr == nil && serial > 0 {
		if t, terr := excelize.ExcelDateToTime(serial, false); terr == nil {
			return model.NewDay(t), nil
		}
	}
	return model.Day{}, err
}

// ParseCellDay 按表的来源选择解析方式：仅工作簿接受序列号
func (t *Table) ParseCellDay(text string, layouts []string) (model.Day, error) {
	if t.Sheet != "" {
		return ParseSheetDay(text, layouts)
	}
	return ParseDay(text, layouts)
}

// FormatDay 按 layout 输出日期
func FormatDay(d model.Day, layout string) string {
	return d.Format(layout)
}
