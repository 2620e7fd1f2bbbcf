package parser

// Table 读取后的二维表：第一行为表头，其余为数据行
type Table struct {
	Source  string     `json:"source"`
	Sheet   string     `json:"sheet,omitempty"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`

	// Lines 数据行对应的源文件行号，可为空
	Lines []int `json:"-"`
}

// Column 查找第一个命中别名的列索引，未找到返回 -1
func (t *Table) Column(aliases ...string) int {
	for i, h := range t.Headers {
		if MatchHeader(h, aliases) {
			return i
		}
	}
	return -1
}

// Cell 取单元格并去除首尾空白，越界返回空串
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return trimCell(r[col])
}

// Line 数据行在源文件中的行号（表头为第 1 行）
func (t *Table) Line(row int) int {
	if row >= 0 && row < len(t.Lines) {
		return t.Lines[row]
	}
	return row + 2
}

// Empty 是否没有数据行
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}
