package planner

import (
	"github.com/Sev3364/Planning-app/internal/model"
)

// Input 一次排课的全部输入
type Input struct {
	Days   model.DaySequence
	A      *model.Demand
	B      *model.Demand
	Pinned *model.PinnedAssignment
}

// Demand 指定轨道的需求，缺省为空列表
func (in Input) Demand(track model.Track) *model.Demand {
	d := in.A
	if track == model.TrackB {
		d = in.B
	}
	if d == nil {
		return model.NewDemand(track)
	}
	return d
}

// Validate 在排课前检查跨实体约束，返回第一个冲突：
//  1. 固定模块不能出现在任何轨道的非固定列表中
//  2. 两个不同的固定模块不能指定同一天
//  3. 固定模块的日期必须存在于 DaySequence
//
// 不修改任何格子。
func Validate(in Input) error {
	pinned := in.Pinned.Modules()

	for _, track := range model.Tracks {
		names := in.Demand(track).Names()
		for _, m := range pinned {
			if _, ok := names[m.Name]; ok {
				return &ConflictError{Kind: ConflictPinnedAlsoFree, Module: m.Name, Track: track}
			}
		}
	}

	claimed := make(map[model.Day]string)
	for _, m := range pinned {
		for _, d := range m.Days {
			owner, ok := claimed[d]
			if ok && owner != m.Name {
				return &ConflictError{Kind: ConflictPinnedCollision, Module: m.Name, Other: owner, Day: d}
			}
			claimed[d] = m.Name
		}
	}

	for _, m := range pinned {
		for _, d := range m.Days {
			if !in.Days.Contains(d) {
				return &ConflictError{Kind: ConflictUnknownPinnedDay, Module: m.Name, Day: d}
			}
		}
	}

	return nil
}
