package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidModule 模块名为空
	ErrInvalidModule = errors.New("module name must not be empty")
	// ErrMalformedDemand 课时数不是 >= 1 的整数
	ErrMalformedDemand = errors.New("required sessions must be an integer >= 1")
)

// Track 并行排课轨道
type Track int

const (
	TrackA Track = iota
	TrackB
)

// Tracks 全部轨道（处理顺序）
var Tracks = []Track{TrackA, TrackB}

func (t Track) String() string {
	switch t {
	case TrackA:
		return "A"
	case TrackB:
		return "B"
	default:
		return fmt.Sprintf("Track(%d)", int(t))
	}
}

// ParseTrack 解析 "A"/"B"（不区分大小写）
func ParseTrack(s string) (Track, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return TrackA, nil
	case "B":
		return TrackB, nil
	default:
		return 0, fmt.Errorf("unknown track %q", s)
	}
}

func (t Track) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Track) UnmarshalText(text []byte) error {
	v, err := ParseTrack(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ModuleKind 模块类别
type ModuleKind int

const (
	// KindFree 只有课时数，贪心填入单个轨道
	KindFree ModuleKind = iota
	// KindPinned 指定日期，两个轨道同时占用
	KindPinned
)

func (k ModuleKind) String() string {
	if k == KindPinned {
		return "pinned"
	}
	return "free"
}

// Module 教学模块。Kind 决定哪些字段有效：
// KindFree 使用 Track + RequiredSessions，KindPinned 使用 Days。
type Module struct {
	Kind             ModuleKind
	Name             string
	Track            Track
	RequiredSessions int
	Days             []Day
}

// NewFreeModule 创建非固定模块，名称去除首尾空白
func NewFreeModule(track Track, name string, requiredSessions int) (Module, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Module{}, ErrInvalidModule
	}
	if requiredSessions < 1 {
		return Module{}, fmt.Errorf("module %q: %w (got %d)", name, ErrMalformedDemand, requiredSessions)
	}
	return Module{
		Kind:             KindFree,
		Name:             name,
		Track:            track,
		RequiredSessions: requiredSessions,
	}, nil
}

// Demand 单个轨道的非固定模块需求，保持声明顺序
type Demand struct {
	Track   Track
	Modules []Module
}

// NewDemand 创建空需求列表
func NewDemand(track Track) *Demand {
	return &Demand{Track: track, Modules: []Module{}}
}

// Add 追加一个模块
func (d *Demand) Add(name string, requiredSessions int) error {
	m, err := NewFreeModule(d.Track, name, requiredSessions)
	if err != nil {
		return err
	}
	d.Modules = append(d.Modules, m)
	return nil
}

// Names 需求中出现的模块名集合
func (d *Demand) Names() map[string]struct{} {
	out := make(map[string]struct{}, len(d.Modules))
	for _, m := range d.Modules {
		out[m.Name] = struct{}{}
	}
	return out
}

// PinnedAssignment 固定模块 -> 指定日期，按模块首次出现顺序保存
type PinnedAssignment struct {
	order []string
	days  map[string][]Day
}

// NewPinnedAssignment 创建空映射
func NewPinnedAssignment() *PinnedAssignment {
	return &PinnedAssignment{days: make(map[string][]Day)}
}

// Add 为模块追加一个指定日期，日期保持升序
func (p *PinnedAssignment) Add(name string, day Day) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidModule
	}
	days, ok := p.days[name]
	if !ok {
		p.order = append(p.order, name)
	}
	i := sort.Search(len(days), func(i int) bool {
		return day.Before(days[i])
	})
	days = append(days, Day{})
	copy(days[i+1:], days[i:])
	days[i] = day
	p.days[name] = days
	return nil
}

// Len 固定模块数量
func (p *PinnedAssignment) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

// Names 固定模块名（首次出现顺序）
func (p *PinnedAssignment) Names() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Days 模块的指定日期副本
func (p *PinnedAssignment) Days(name string) []Day {
	if p == nil {
		return nil
	}
	out := make([]Day, len(p.days[name]))
	copy(out, p.days[name])
	return out
}

// Has 是否包含该固定模块
func (p *PinnedAssignment) Has(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.days[name]
	return ok
}

// Modules 以 KindPinned 模块形式返回
func (p *PinnedAssignment) Modules() []Module {
	if p == nil {
		return nil
	}
	out := make([]Module, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, Module{Kind: KindPinned, Name: name, Days: p.Days(name)})
	}
	return out
}

// Reordered 返回按 names 顺序迭代的副本，names 须为同一组模块
func (p *PinnedAssignment) Reordered(names []string) (*PinnedAssignment, error) {
	if len(names) != p.Len() {
		return nil, fmt.Errorf("reorder: got %d names, want %d", len(names), p.Len())
	}
	out := NewPinnedAssignment()
	for _, name := range names {
		days, ok := p.days[name]
		if !ok {
			return nil, fmt.Errorf("reorder: unknown pinned module %q", name)
		}
		if _, dup := out.days[name]; dup {
			return nil, fmt.Errorf("reorder: duplicate pinned module %q", name)
		}
		out.order = append(out.order, name)
		out.days[name] = append([]Day(nil), days...)
	}
	return out, nil
}
