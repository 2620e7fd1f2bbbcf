package parser

import (
	"strings"
)

// 列名别名（规范化后比较）
var (
	DayAliases     = []string{"jour", "day", "date"}
	ModuleAliases  = []string{"module"}
	SessionAliases = []string{"nbseances", "sessions", "requiredsessions"}
)

// SheetRole 工作表在输入中的角色
type SheetRole int

const (
	SheetRoleUnknown SheetRole = iota
	SheetRoleDays
	SheetRoleDemand
	SheetRolePinned
)

func (r SheetRole) String() string {
	switch r {
	case SheetRoleDays:
		return "days"
	case SheetRoleDemand:
		return "demand"
	case SheetRolePinned:
		return "pinned"
	}
	return "unknown"
}

// SheetRecognition 识别结果
type SheetRecognition struct {
	SheetName string    `json:"sheetName"`
	Role      SheetRole `json:"role"`

	// Track 需求表所属轨道（"A" / "B"），从工作表名推断，未知为空
	Track string `json:"track,omitempty"`
}

// SheetRecognizer 按表头识别工作表角色，表头不足以区分时参考工作表名
type SheetRecognizer struct{}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{}
}

// Recognize 识别单个工作表
func (r *SheetRecognizer) Recognize(sheetName string, headers []string) SheetRecognition {
	result := SheetRecognition{SheetName: sheetName}

	hasDay := hasColumn(headers, DayAliases)
	hasModule := hasColumn(headers, ModuleAliases)
	hasSessions := hasColumn(headers, SessionAliases)

	switch {
	case hasModule && hasSessions:
		result.Role = SheetRoleDemand
		result.Track = trackFromSheetName(sheetName)
	case hasModule && hasDay:
		result.Role = SheetRolePinned
	case hasDay:
		result.Role = SheetRoleDays
	}
	return result
}

func hasColumn(headers []string, aliases []string) bool {
	for _, h := range headers {
		if MatchHeader(h, aliases) {
			return true
		}
	}
	return false
}

// trackFromSheetName "modules_A" / "Modules B" / "B" -> 轨道字母
func trackFromSheetName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.TrimRight(n, " _-.")
	if n == "" {
		return ""
	}
	last := n[len(n)-1]
	if last != 'A' && last != 'B' {
		return ""
	}
	// 末尾字母必须独立出现，避免 "DEMANDA" 之类误判
	if len(n) > 1 {
		prev := n[len(n)-2]
		if prev >= 'A' && prev <= 'Z' {
			return ""
		}
	}
	return string(last)
}
