package planner

import (
	"errors"
	"fmt"

	"github.com/Sev3364/Planning-app/internal/model"
)

var (
	// ErrInconsistentInput 输入之间存在结构性冲突，整次排课中止
	ErrInconsistentInput = errors.New("inconsistent planning input")
	// ErrDayOccupied 写入已被占用的日期
	ErrDayOccupied = errors.New("day already occupied")
	// ErrUnknownDay 日期不在 DaySequence 中
	ErrUnknownDay = errors.New("day not in day sequence")
)

// ConflictKind 冲突类别
type ConflictKind int

const (
	// ConflictPinnedAlsoFree 固定模块同时出现在某轨道的非固定列表中
	ConflictPinnedAlsoFree ConflictKind = iota + 1
	// ConflictPinnedCollision 两个固定模块指定了同一天
	ConflictPinnedCollision
	// ConflictUnknownPinnedDay 固定模块的日期不在 DaySequence 中
	ConflictUnknownPinnedDay
	// ConflictDayOccupied 固定模块写入时目标日期已被占用
	ConflictDayOccupied
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictPinnedAlsoFree:
		return "pinned_also_free"
	case ConflictPinnedCollision:
		return "pinned_collision"
	case ConflictUnknownPinnedDay:
		return "unknown_pinned_day"
	case ConflictDayOccupied:
		return "day_occupied"
	default:
		return fmt.Sprintf("ConflictKind(%d)", int(k))
	}
}

// ConflictError 致命冲突，带上出错的模块名与日期
type ConflictError struct {
	Kind   ConflictKind
	Module string
	Other  string
	Day    model.Day
	Track  model.Track
}

func (e *ConflictError) Error() string {
	switch e.Kind {
	case ConflictPinnedAlsoFree:
		return fmt.Sprintf("pinned module %q also appears in track %s free modules", e.Module, e.Track)
	case ConflictPinnedCollision:
		return fmt.Sprintf("collision: day %s is pinned for both %q and %q", e.Day, e.Other, e.Module)
	case ConflictUnknownPinnedDay:
		return fmt.Sprintf("pinned day %s for module %q is not in the day list", e.Day, e.Module)
	case ConflictDayOccupied:
		return fmt.Sprintf("day %s already occupied by %q while placing pinned module %q", e.Day, e.Other, e.Module)
	default:
		return fmt.Sprintf("conflict on module %q", e.Module)
	}
}

// Is 所有冲突都归类为 ErrInconsistentInput；占用冲突同时匹配 ErrDayOccupied
func (e *ConflictError) Is(target error) bool {
	switch target {
	case ErrInconsistentInput:
		return true
	case ErrDayOccupied:
		return e.Kind == ConflictDayOccupied
	case ErrUnknownDay:
		return e.Kind == ConflictUnknownPinnedDay
	}
	return false
}
