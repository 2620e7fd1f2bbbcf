package pipeline

import (
	"sync"

	"github.com/Sev3364/Planning-app/internal/model"
	"github.com/Sev3364/Planning-app/internal/store"
)

const defaultMemoryCapacity = 32

// MemoryRuns 内存中的最近排课结果；未启用 SQLite 时作为唯一的历史来源
type MemoryRuns struct {
	mu       sync.RWMutex
	capacity int
	order    []string
	plans    map[string]*model.Plan
	sums     map[string]store.RunSummary
}

// NewMemoryRuns 创建内存存储，capacity <= 0 时使用默认容量
func NewMemoryRuns(capacity int) *MemoryRuns {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryRuns{
		capacity: capacity,
		plans:    make(map[string]*model.Plan),
		sums:     make(map[string]store.RunSummary),
	}
}

// Put 保存一次排课，超出容量时淘汰最早的记录
func (m *MemoryRuns) Put(plan *model.Plan, sum store.RunSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plans[plan.ID]; !ok {
		m.order = append(m.order, plan.ID)
	}
	m.plans[plan.ID] = plan
	m.sums[plan.ID] = sum

	for len(m.order) > m.capacity {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.plans, oldest)
		delete(m.sums, oldest)
	}
}

// Get 获取单次排课
func (m *MemoryRuns) Get(id string) (*model.Plan, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plans[id]
	return p, ok
}

// Latest 最近一次排课
func (m *MemoryRuns) Latest() (*model.Plan, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.order) == 0 {
		return nil, false
	}
	return m.plans[m.order[len(m.order)-1]], true
}

// List 按保存顺序倒序列出
func (m *MemoryRuns) List(limit int) []store.RunSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]store.RunSummary, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, m.sums[m.order[i]])
	}
	return out
}

// Count 记录数
func (m *MemoryRuns) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}
