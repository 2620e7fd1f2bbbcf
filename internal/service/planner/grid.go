package planner

import (
	"fmt"

	"github.com/Sev3364/Planning-app/internal/model"
)

// ScheduleGrid 单个轨道的 日期 -> 占用 映射。
// 以日期值为键，重复出现的日期共用一个格子。
type ScheduleGrid struct {
	track model.Track
	days  model.DaySequence
	slots map[model.Day]model.Occupant
}

// NewScheduleGrid 创建全部空闲的格子
func NewScheduleGrid(track model.Track, days model.DaySequence) *ScheduleGrid {
	g := &ScheduleGrid{
		track: track,
		days:  days,
		slots: make(map[model.Day]model.Occupant, days.Len()),
	}
	for _, d := range days.Distinct() {
		g.slots[d] = model.Free
	}
	return g
}

// Track 所属轨道
func (g *ScheduleGrid) Track() model.Track {
	return g.track
}

// At 查询某天的占用
func (g *ScheduleGrid) At(day model.Day) (model.Occupant, bool) {
	o, ok := g.slots[day]
	return o, ok
}

// IsFree 某天是否存在且空闲
func (g *ScheduleGrid) IsFree(day model.Day) bool {
	o, ok := g.slots[day]
	return ok && o.IsFree()
}

// Place 将模块写入某天，日期必须存在且空闲
func (g *ScheduleGrid) Place(day model.Day, module string) error {
	if module == "" {
		return model.ErrInvalidModule
	}
	o, ok := g.slots[day]
	if !ok {
		return fmt.Errorf("track %s, %s: %w", g.track, day, ErrUnknownDay)
	}
	if !o.IsFree() {
		name, _ := o.Module()
		return fmt.Errorf("track %s, %s held by %q: %w", g.track, day, name, ErrDayOccupied)
	}
	g.slots[day] = model.Occupied(module)
	return nil
}

// Snapshot 按 DaySequence 位置输出占用（重复日期重复输出）
func (g *ScheduleGrid) Snapshot() []model.Occupant {
	out := make([]model.Occupant, g.days.Len())
	for i := range out {
		out[i] = g.slots[g.days.At(i)]
	}
	return out
}

// FreeCount 空闲格子数（按不同日期计）
func (g *ScheduleGrid) FreeCount() int {
	n := 0
	for _, o := range g.slots {
		if o.IsFree() {
			n++
		}
	}
	return n
}
