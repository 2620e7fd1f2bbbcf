package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// IsWorkbook 是否为 Excel 工作簿扩展名
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// ReadTable 读取 CSV 或 Excel 工作簿（第一个工作表）
func ReadTable(path string) (*Table, error) {
	if IsWorkbook(path) {
		return readWorkbook(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadDelimited(f, filepath.Base(path))
}

// ReadDelimited 读取分隔文本：自动识别 , 或 ;，去除 BOM，
// 非 UTF-8 内容按 Windows-1252 解码
func ReadDelimited(r io.Reader, source string) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	data, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	header := firstLine(data)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = SniffDelimiter(header)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table := &Table{Source: source}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", source, err)
		}
		if table.Headers == nil {
			table.Headers = trimRow(record)
			continue
		}
		line, _ := reader.FieldPos(0)
		table.Rows = append(table.Rows, record)
		table.Lines = append(table.Lines, line)
	}
	return table, nil
}

func readWorkbook(path string) (*Table, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheet", filepath.Base(path))
	}
	return sheetTable(wb, filepath.Base(path), sheets[0])
}

// ReadWorkbookTables 读取工作簿的全部工作表，每个工作表一张表
func ReadWorkbookTables(path string) ([]*Table, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	tables := make([]*Table, 0, len(sheets))
	for _, sheet := range sheets {
		table, err := sheetTable(wb, filepath.Base(path), sheet)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// sheetTable 首个非空行作为表头，跳过空行，行号为工作表行号
func sheetTable(wb *excelize.File, base, sheet string) (*Table, error) {
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	table := &Table{Source: base + "#" + sheet, Sheet: sheet}
	for i, row := range rows {
		if table.Headers == nil {
			if isBlankRow(row) {
				continue
			}
			table.Headers = trimRow(row)
			continue
		}
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
		table.Lines = append(table.Lines, i+1)
	}
	return table, nil
}

func decodeText(data []byte) ([]byte, error) {
	if utf8.Valid(data) || bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		return out, err
	}
	return charmap.Windows1252.NewDecoder().Bytes(data)
}

func firstLine(data []byte) string {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return string(data[:i])
	}
	return string(data)
}

func trimRow(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = trimCell(v)
	}
	return out
}

func trimCell(v string) string {
	return strings.TrimSpace(strings.ReplaceAll(v, "\ufeff", ""))
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if trimCell(v) != "" {
			return false
		}
	}
	return true
}
