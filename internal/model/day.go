package model

import (
	"sort"
	"time"
)

// Day 日历日（无时间部分），可作为 map 键
type Day struct {
	year  int
	month time.Month
	day   int
}

// NewDay 由 time.Time 构造日历日，丢弃时间与时区部分
func NewDay(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// DayOf 由年月日构造日历日（越界值按 time.Date 规则归一化）
func DayOf(year int, month time.Month, day int) Day {
	return NewDay(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Time 返回当天 UTC 零点
func (d Day) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// IsZero 是否为零值
func (d Day) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Compare 按时间先后比较：d 早于 o 返回 -1，相同返回 0，晚于返回 1
func (d Day) Compare(o Day) int {
	switch {
	case d.year != o.year:
		return cmpInt(d.year, o.year)
	case d.month != o.month:
		return cmpInt(int(d.month), int(o.month))
	default:
		return cmpInt(d.day, o.day)
	}
}

// Before 是否早于 o
func (d Day) Before(o Day) bool {
	return d.Compare(o) < 0
}

// Format 按 layout 格式化
func (d Day) Format(layout string) string {
	return d.Time().Format(layout)
}

// String ISO 格式 (2006-01-02)
func (d Day) String() string {
	return d.Format(time.DateOnly)
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// DaySequence 按时间升序排列的日历日序列，构造后只读。
// 重复日期按输入保留。
type DaySequence struct {
	days []Day
}

// NewDaySequence 复制并按时间升序排序（稳定排序）
func NewDaySequence(days []Day) DaySequence {
	sorted := make([]Day, len(days))
	copy(sorted, days)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})
	return DaySequence{days: sorted}
}

// Len 序列长度（含重复）
func (s DaySequence) Len() int {
	return len(s.days)
}

// At 第 i 个日期
func (s DaySequence) At(i int) Day {
	return s.days[i]
}

// All 返回序列副本
func (s DaySequence) All() []Day {
	out := make([]Day, len(s.days))
	copy(out, s.days)
	return out
}

// Contains 序列中是否存在该日期
func (s DaySequence) Contains(d Day) bool {
	return s.IndexOf(d) >= 0
}

// IndexOf 日期首次出现的位置，不存在返回 -1
func (s DaySequence) IndexOf(d Day) int {
	i := sort.Search(len(s.days), func(i int) bool {
		return !s.days[i].Before(d)
	})
	if i < len(s.days) && s.days[i] == d {
		return i
	}
	return -1
}

// Distinct 去重后的日期（保持升序）
func (s DaySequence) Distinct() []Day {
	out := make([]Day, 0, len(s.days))
	for i, d := range s.days {
		if i > 0 && s.days[i-1] == d {
			continue
		}
		out = append(out, d)
	}
	return out
}
