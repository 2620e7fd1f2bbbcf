package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sev3364/Planning-app/internal/model"
)

// Engine 排课引擎：先放固定模块，再按声明顺序贪心填充各轨道
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewEngine 创建排课引擎，logger 为 nil 时不输出日志
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Plan 计算完整排课。冲突为致命错误，不返回部分结果；
// 课时不足记入 Plan.Shortfalls，不视为错误。
func (e *Engine) Plan(in Input) (*model.Plan, error) {
	if err := Validate(in); err != nil {
		e.logger.Error("planning input rejected", zap.Error(err))
		return nil, err
	}

	gridA := NewScheduleGrid(model.TrackA, in.Days)
	gridB := NewScheduleGrid(model.TrackB, in.Days)

	if err := e.placePinned(gridA, gridB, in.Pinned); err != nil {
		e.logger.Error("pinned placement failed", zap.Error(err))
		return nil, err
	}

	shortfalls := make([]model.Shortfall, 0)
	for _, g := range []*ScheduleGrid{gridA, gridB} {
		missing, err := e.placeFree(g, in.Days, in.Demand(g.Track()))
		if err != nil {
			e.logger.Error("free placement failed", zap.Stringer("track", g.Track()), zap.Error(err))
			return nil, err
		}
		shortfalls = append(shortfalls, missing...)
	}

	plan := &model.Plan{
		ID:         e.newID(),
		CreatedAt:  e.now(),
		Days:       in.Days,
		A:          gridA.Snapshot(),
		B:          gridB.Snapshot(),
		Shortfalls: shortfalls,
	}

	e.logger.Info("planning done",
		zap.String("runId", plan.ID),
		zap.Int("days", in.Days.Len()),
		zap.Int("pinnedModules", in.Pinned.Len()),
		zap.Int("freeA", gridA.FreeCount()),
		zap.Int("freeB", gridB.FreeCount()),
		zap.Int("shortfalls", len(shortfalls)),
	)
	return plan, nil
}

// placePinned 固定模块同时写入两个轨道；目标日期已占用为致命错误
func (e *Engine) placePinned(a, b *ScheduleGrid, pinned *model.PinnedAssignment) error {
	for _, m := range pinned.Modules() {
		for _, day := range m.Days {
			for _, g := range []*ScheduleGrid{a, b} {
				o, ok := g.At(day)
				if !ok {
					return &ConflictError{Kind: ConflictUnknownPinnedDay, Module: m.Name, Day: day}
				}
				if !o.IsFree() {
					holder, _ := o.Module()
					return &ConflictError{Kind: ConflictDayOccupied, Module: m.Name, Other: holder, Day: day, Track: g.Track()}
				}
			}
			if err := a.Place(day, m.Name); err != nil {
				return err
			}
			if err := b.Place(day, m.Name); err != nil {
				return err
			}
			e.logger.Debug("pinned module placed", zap.String("module", m.Name), zap.Stringer("day", day))
		}
	}
	return nil
}

// placeFree 按声明顺序逐个模块扫描日期，填入最早的空闲日
func (e *Engine) placeFree(g *ScheduleGrid, days model.DaySequence, demand *model.Demand) ([]model.Shortfall, error) {
	var shortfalls []model.Shortfall

	for _, m := range demand.Modules {
		placed := 0
		for i := 0; i < days.Len() && placed < m.RequiredSessions; i++ {
			day := days.At(i)
			if !g.IsFree(day) {
				continue
			}
			if err := g.Place(day, m.Name); err != nil {
				return nil, fmt.Errorf("place %s on %s: %w", m.Name, day, err)
			}
			placed++
		}

		e.logger.Debug("free module placed",
			zap.Stringer("track", g.Track()),
			zap.String("module", m.Name),
			zap.Int("placed", placed),
			zap.Int("required", m.RequiredSessions),
		)

		if placed < m.RequiredSessions {
			s := model.Shortfall{Module: m.Name, Track: g.Track(), Missing: m.RequiredSessions - placed}
			e.logger.Warn("not enough free days",
				zap.Stringer("track", s.Track),
				zap.String("module", s.Module),
				zap.Int("missing", s.Missing),
			)
			shortfalls = append(shortfalls, s)
		}
	}
	return shortfalls, nil
}
