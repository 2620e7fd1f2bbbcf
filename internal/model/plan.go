package model

import "time"

// Shortfall 未能排完的课时
type Shortfall struct {
	Module  string `json:"module"`
	Track   Track  `json:"track"`
	Missing int    `json:"missing"`
}

// Slot 某一天在某轨道上的占用
type Slot struct {
	Day      Day
	Occupant Occupant
}

// Plan 一次排课结果。A/B 与 Days 按位置一一对应。
type Plan struct {
	ID         string
	CreatedAt  time.Time
	Days       DaySequence
	A          []Occupant
	B          []Occupant
	Shortfalls []Shortfall
}

// Grid 指定轨道的占用列表
func (p *Plan) Grid(track Track) []Occupant {
	if track == TrackB {
		return p.B
	}
	return p.A
}

// Slots 指定轨道按时间顺序的 (日期, 占用) 列表
func (p *Plan) Slots(track Track) []Slot {
	grid := p.Grid(track)
	out := make([]Slot, p.Days.Len())
	for i := range out {
		out[i] = Slot{Day: p.Days.At(i), Occupant: grid[i]}
	}
	return out
}

// PlacedCount 模块在指定轨道上被排入的天数（按不同日期计）
func (p *Plan) PlacedCount(track Track, module string) int {
	grid := p.Grid(track)
	seen := make(map[Day]struct{})
	for i, o := range grid {
		name, ok := o.Module()
		if !ok || name != module {
			continue
		}
		seen[p.Days.At(i)] = struct{}{}
	}
	return len(seen)
}

// TotalMissing 所有未排课时之和
func (p *Plan) TotalMissing() int {
	total := 0
	for _, s := range p.Shortfalls {
		total += s.Missing
	}
	return total
}
