package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Sev3364/Planning-app/internal/config"
	"github.com/Sev3364/Planning-app/internal/exporter"
	"github.com/Sev3364/Planning-app/internal/importer"
	"github.com/Sev3364/Planning-app/internal/model"
	"github.com/Sev3364/Planning-app/internal/service/planner"
	"github.com/Sev3364/Planning-app/internal/store"
)

// Outcome 一次排课的结果与输入报告
type Outcome struct {
	Plan   *model.Plan
	Report importer.Report
}

// Runner 串联 读取 → 校验 → 排课 → 保存 → 导出，CLI 与 HTTP 共用
type Runner struct {
	cfg      *config.AppConfig
	engine   *planner.Engine
	exporter *exporter.Exporter
	store    *store.Store
	memory   *MemoryRuns
	logger   *zap.Logger
}

// NewRunner 创建流水线；st 为 nil 时只在内存中保留历史
func NewRunner(cfg *config.AppConfig, st *store.Store, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		engine: planner.NewEngine(logger.Named("planner")),
		exporter: exporter.NewExporter(exporter.Options{
			DateLayout: cfg.Output.DateLayout,
			FreeLabel:  cfg.Output.FreeLabel,
			WriteXLSX:  cfg.Output.WriteXLSX,
			XLSXFile:   cfg.Output.XLSXFile,
		}),
		store:  st,
		memory: NewMemoryRuns(0),
		logger: logger,
	}
}

// Run 读取 inputDir 下的输入文件并计算排课
func (r *Runner) Run(inputDir string) (*model.Plan, error) {
	out, err := r.RunWithReport(inputDir)
	if err != nil {
		return nil, err
	}
	return out.Plan, nil
}

// RunWithReport 同 Run，并返回输入文件报告
func (r *Runner) RunWithReport(inputDir string) (*Outcome, error) {
	loader := importer.NewLoader(importer.Options{
		Dir:         inputDir,
		DaysFile:    r.cfg.Input.DaysFile,
		TrackAFile:  r.cfg.Input.TrackAFile,
		TrackBFile:  r.cfg.Input.TrackBFile,
		PinnedFile:  r.cfg.Input.PinnedFile,
		DateLayouts: r.cfg.Input.DateLayouts,
		Workbook:    r.cfg.Input.Workbook,
	}, r.logger.Named("importer"))

	loaded, err := loader.Load()
	if err != nil {
		return nil, err
	}

	plan, err := r.engine.Plan(loaded.Input)
	if err != nil {
		return nil, err
	}

	r.remember(plan, inputDir, loaded.Input.Pinned.Len())
	return &Outcome{Plan: plan, Report: loaded.Report}, nil
}

// remember 保存到内存，并在启用时写入 SQLite；持久化失败只记录日志
func (r *Runner) remember(plan *model.Plan, source string, pinnedModules int) {
	r.memory.Put(plan, store.RunSummary{
		ID:             plan.ID,
		CreatedAt:      plan.CreatedAt,
		Source:         source,
		DayCount:       plan.Days.Len(),
		PinnedModules:  pinnedModules,
		ShortfallCount: len(plan.Shortfalls),
		MissingTotal:   plan.TotalMissing(),
	})

	if r.store == nil {
		return
	}
	if err := r.store.SaveRun(plan, source, pinnedModules); err != nil {
		r.logger.Error("persist run failed", zap.String("runId", plan.ID), zap.Error(err))
	}
}

// Export 将排课写出到 outputDir
func (r *Runner) Export(plan *model.Plan, outputDir string, progress func(exporter.ProgressEvent)) (*exporter.Result, error) {
	res, err := r.exporter.Export(plan, outputDir, progress)
	if err != nil {
		return nil, fmt.Errorf("export run %s: %w", plan.ID, err)
	}
	r.logger.Info("run exported", zap.String("runId", plan.ID), zap.Strings("files", res.Files))
	return res, nil
}

// Get 按 ID 获取排课，先查内存再查 SQLite
func (r *Runner) Get(id string) (*model.Plan, error) {
	if p, ok := r.memory.Get(id); ok {
		return p, nil
	}
	if r.store == nil {
		return nil, fmt.Errorf("%s: %w", id, store.ErrRunNotFound)
	}
	p, _, err := r.store.GetRun(id)
	return p, err
}

// Latest 最近一次排课，没有时返回 store.ErrRunNotFound
func (r *Runner) Latest() (*model.Plan, error) {
	if p, ok := r.memory.Latest(); ok {
		return p, nil
	}
	if r.store == nil {
		return nil, store.ErrRunNotFound
	}
	id, err := r.store.LatestRunID()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, store.ErrRunNotFound
	}
	return r.Get(id)
}

// List 列出历史排课
func (r *Runner) List(limit int) ([]store.RunSummary, error) {
	if r.store == nil {
		return r.memory.List(limit), nil
	}
	return r.store.ListRuns(limit)
}

// Persistent 是否启用了 SQLite
func (r *Runner) Persistent() bool {
	return r.store != nil
}

// IsInputError 致命输入错误（HTTP 映射为 422）
func IsInputError(err error) bool {
	var inputErr *importer.InputError
	return errors.As(err, &inputErr) ||
		errors.Is(err, planner.ErrInconsistentInput) ||
		errors.Is(err, model.ErrMalformedDemand) ||
		errors.Is(err, model.ErrInvalidModule)
}
