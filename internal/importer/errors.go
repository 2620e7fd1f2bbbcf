package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput 文件没有数据行
	ErrEmptyInput = errors.New("file has no data rows")
	// ErrMissingColumn 缺少必需列
	ErrMissingColumn = errors.New("required column not found")
	// ErrMissingFile 输入文件不存在
	ErrMissingFile = errors.New("input file not found")
)

// InputError 输入数据错误，定位到文件与行号（Line 为 0 表示整个文件）
type InputError struct {
	File string
	Line int
	Err  error
}

func (e *InputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s, line %d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
