package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Sev3364/Planning-app/internal/model"
)

// ErrRunNotFound 排课记录不存在
var ErrRunNotFound = errors.New("run not found")

// RunSummary 排课记录概要（列表用）
type RunSummary struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	Source         string    `json:"source"`
	DayCount       int       `json:"dayCount"`
	PinnedModules  int       `json:"pinnedModules"`
	ShortfallCount int       `json:"shortfallCount"`
	MissingTotal   int       `json:"missingTotal"`
}

// SaveRun 在一个事务内保存排课结果，并记为最近一次
func (s *Store) SaveRun(plan *model.Plan, source string, pinnedModules int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, created_at, source, day_count, pinned_modules, shortfall_count, missing_total)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, plan.ID, plan.CreatedAt.UTC(), source, plan.Days.Len(), pinnedModules, len(plan.Shortfalls), plan.TotalMissing())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	cellStmt, err := tx.Prepare(`INSERT INTO run_cells (run_id, track, position, day, module) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare cells: %w", err)
	}
	defer cellStmt.Close()

	for _, track := range model.Tracks {
		for i, slot := range plan.Slots(track) {
			var module sql.NullString
			if name, ok := slot.Occupant.Module(); ok {
				module = sql.NullString{String: name, Valid: true}
			}
			if _, err := cellStmt.Exec(plan.ID, track.String(), i, slot.Day.String(), module); err != nil {
				return fmt.Errorf("failed to insert cell: %w", err)
			}
		}
	}

	for i, sf := range plan.Shortfalls {
		_, err := tx.Exec(`INSERT INTO run_shortfalls (run_id, seq, track, module, missing) VALUES (?, ?, ?, ?, ?)`,
			plan.ID, i, sf.Track.String(), sf.Module, sf.Missing)
		if err != nil {
			return fmt.Errorf("failed to insert shortfall: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, keyLatestRun, plan.ID)
	if err != nil {
		return fmt.Errorf("failed to update latest run: %w", err)
	}

	return tx.Commit()
}

// ListRuns 按创建时间倒序列出排课记录
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, created_at, source, day_count, pinned_modules, shortfall_count, missing_total
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs failed: %w", err)
	}
	defer rows.Close()

	out := []RunSummary{}
	for rows.Next() {
		var it RunSummary
		if err := rows.Scan(&it.ID, &it.CreatedAt, &it.Source, &it.DayCount, &it.PinnedModules, &it.ShortfallCount, &it.MissingTotal); err != nil {
			return nil, fmt.Errorf("scan run failed: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs failed: %w", err)
	}
	return out, nil
}

// CountRuns 排课记录数
func (s *Store) CountRuns() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs failed: %w", err)
	}
	return n, nil
}

// GetRun 读取完整排课结果
func (s *Store) GetRun(id string) (*model.Plan, *RunSummary, error) {
	var sum RunSummary
	err := s.db.QueryRow(`
		SELECT id, created_at, source, day_count, pinned_modules, shortfall_count, missing_total
		FROM runs WHERE id = ?
	`, id).Scan(&sum.ID, &sum.CreatedAt, &sum.Source, &sum.DayCount, &sum.PinnedModules, &sum.ShortfallCount, &sum.MissingTotal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("query run failed: %w", err)
	}

	plan := &model.Plan{ID: sum.ID, CreatedAt: sum.CreatedAt, Shortfalls: []model.Shortfall{}}

	rows, err := s.db.Query(`
		SELECT track, position, day, module FROM run_cells
		WHERE run_id = ? ORDER BY track, position
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("query cells failed: %w", err)
	}
	defer rows.Close()

	days := make([]model.Day, 0, sum.DayCount)
	plan.A = make([]model.Occupant, 0, sum.DayCount)
	plan.B = make([]model.Occupant, 0, sum.DayCount)
	for rows.Next() {
		var (
			trackText, dayText string
			position           int
			module             sql.NullString
		)
		if err := rows.Scan(&trackText, &position, &dayText, &module); err != nil {
			return nil, nil, fmt.Errorf("scan cell failed: %w", err)
		}
		track, err := model.ParseTrack(trackText)
		if err != nil {
			return nil, nil, err
		}
		occupant := model.Free
		if module.Valid {
			occupant = model.Occupied(module.String)
		}
		if track == model.TrackA {
			t, err := time.Parse(time.DateOnly, dayText)
			if err != nil {
				return nil, nil, fmt.Errorf("bad stored day %q: %w", dayText, err)
			}
			days = append(days, model.NewDay(t))
			plan.A = append(plan.A, occupant)
		} else {
			plan.B = append(plan.B, occupant)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate cells failed: %w", err)
	}
	plan.Days = model.NewDaySequence(days)

	sfRows, err := s.db.Query(`
		SELECT track, module, missing FROM run_shortfalls
		WHERE run_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("query shortfalls failed: %w", err)
	}
	defer sfRows.Close()

	for sfRows.Next() {
		var (
			sf        model.Shortfall
			trackText string
		)
		if err := sfRows.Scan(&trackText, &sf.Module, &sf.Missing); err != nil {
			return nil, nil, fmt.Errorf("scan shortfall failed: %w", err)
		}
		if sf.Track, err = model.ParseTrack(trackText); err != nil {
			return nil, nil, err
		}
		plan.Shortfalls = append(plan.Shortfalls, sf)
	}
	if err := sfRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate shortfalls failed: %w", err)
	}

	return plan, &sum, nil
}

// DeleteRun 删除排课记录（级联删除格子与未排课时）
func (s *Store) DeleteRun(id string) error {
	res, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return nil
}
