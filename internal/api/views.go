package api

import (
	"time"

	"github.com/Sev3364/Planning-app/internal/model"
)

// SlotView 单日占用
type SlotView struct {
	Day    string `json:"day"`
	Label  string `json:"label"`
	Module string `json:"module,omitempty"`
	Free   bool   `json:"free"`
}

// RunView 排课结果
type RunView struct {
	ID           string            `json:"id"`
	CreatedAt    time.Time         `json:"createdAt"`
	Days         int               `json:"days"`
	TrackA       []SlotView        `json:"trackA"`
	TrackB       []SlotView        `json:"trackB"`
	Shortfalls   []model.Shortfall `json:"shortfalls"`
	MissingTotal int               `json:"missingTotal"`
}

func (h *Handler) runView(plan *model.Plan) RunView {
	return RunView{
		ID:           plan.ID,
		CreatedAt:    plan.CreatedAt,
		Days:         plan.Days.Len(),
		TrackA:       h.slotViews(plan, model.TrackA),
		TrackB:       h.slotViews(plan, model.TrackB),
		Shortfalls:   plan.Shortfalls,
		MissingTotal: plan.TotalMissing(),
	}
}

func (h *Handler) slotViews(plan *model.Plan, track model.Track) []SlotView {
	slots := plan.Slots(track)
	out := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		name, ok := s.Occupant.Module()
		out = append(out, SlotView{
			Day:    s.Day.Format(h.cfg.Output.DateLayout),
			Label:  s.Occupant.Label(h.cfg.Output.FreeLabel),
			Module: name,
			Free:   !ok,
		})
	}
	return out
}
