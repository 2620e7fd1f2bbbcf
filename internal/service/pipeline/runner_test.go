package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sev3364/Planning-app/internal/config"
	"github.com/Sev3364/Planning-app/internal/exporter"
	"github.com/Sev3364/Planning-app/internal/model"
	"github.com/Sev3364/Planning-app/internal/service/planner"
	"github.com/Sev3364/Planning-app/internal/store"
)

func writeInput(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func sampleInput(t *testing.T) string {
	return writeInput(t, map[string]string{
		"jours.csv":     "Jour\n01/09/2025\n02/09/2025\n03/09/2025\n04/09/2025\n05/09/2025\n",
		"modules_A.csv": "Module,NbSeances\nM1,2\nM2,3\n",
		"modules_B.csv": "Module;NbSeances\nN1;1\n",
		"liens.csv":     "Module,Jour\nX,03/09/2025\n",
	})
}

func TestRunner_RunPersistAndExport(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "planning.db"))
	require.NoError(t, err)
	defer st.Close()

	r := NewRunner(config.DefaultConfig(), st, nil)

	out, err := r.RunWithReport(sampleInput(t))
	require.NoError(t, err)
	plan := out.Plan

	assert.Len(t, out.Report.Files, 4)
	assert.Equal(t, []model.Shortfall{{Module: "M2", Track: model.TrackA, Missing: 1}}, plan.Shortfalls)

	saved, sum, err := st.GetRun(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.A, saved.A)
	assert.Equal(t, plan.B, saved.B)
	assert.Equal(t, 1, sum.PinnedModules)

	latest, err := r.Latest()
	require.NoError(t, err)
	assert.Equal(t, plan.ID, latest.ID)

	runs, err := r.List(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].MissingTotal)

	outDir := filepath.Join(t.TempDir(), "output")
	res, err := r.Export(plan, outDir, nil)
	require.NoError(t, err)
	assert.Len(t, res.Files, 4)

	data, err := os.ReadFile(filepath.Join(outDir, exporter.FileTrackA))
	require.NoError(t, err)
	assert.Equal(t, "Jour,Module\n01/09/2025,M1\n02/09/2025,M1\n03/09/2025,X\n04/09/2025,M2\n05/09/2025,M2\n", string(data))
}

func TestRunner_MemoryOnly(t *testing.T) {
	r := NewRunner(config.DefaultConfig(), nil, nil)
	assert.False(t, r.Persistent())

	_, err := r.Latest()
	assert.ErrorIs(t, err, store.ErrRunNotFound)

	plan, err := r.Run(sampleInput(t))
	require.NoError(t, err)

	got, err := r.Get(plan.ID)
	require.NoError(t, err)
	assert.Same(t, plan, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, store.ErrRunNotFound)

	runs, err := r.List(0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunner_FatalInputProducesNoRun(t *testing.T) {
	dir := writeInput(t, map[string]string{
		"jours.csv":     "Jour\n01/09/2025\n02/09/2025\n",
		"modules_A.csv": "Module,NbSeances\nX,1\n",
		"modules_B.csv": "Module,NbSeances\nN1,1\n",
		"liens.csv":     "Module,Jour\nX,01/09/2025\n",
	})

	r := NewRunner(config.DefaultConfig(), nil, nil)
	plan, err := r.Run(dir)
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, planner.ErrInconsistentInput)
	assert.True(t, IsInputError(err))
	assert.Equal(t, 0, r.memory.Count())
}

func TestRunner_MissingFileIsInputError(t *testing.T) {
	dir := writeInput(t, map[string]string{"jours.csv": "Jour\n01/09/2025\n"})
	_, err := NewRunner(config.DefaultConfig(), nil, nil).Run(dir)
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.False(t, IsInputError(errors.New("disk full")))
}

func TestMemoryRuns_EvictsOldest(t *testing.T) {
	m := NewMemoryRuns(2)
	for _, id := range []string{"a", "b", "c"} {
		m.Put(&model.Plan{ID: id}, store.RunSummary{ID: id, CreatedAt: time.Now()})
	}

	assert.Equal(t, 2, m.Count())
	_, ok := m.Get("a")
	assert.False(t, ok)

	latest, ok := m.Latest()
	require.True(t, ok)
	assert.Equal(t, "c", latest.ID)

	list := m.List(1)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].ID)
}
