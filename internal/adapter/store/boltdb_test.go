package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctrans/config"
	"doctrans/internal/domain"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestIRRoundTrip(t *testing.T) {
	st := newTestStore(t)

	_, found, err := st.GetIR("missing")
	require.NoError(t, err)
	assert.False(t, found)

	ir := domain.IR{
		Type:   domain.KindStatic,
		Doc:    "Summary",
		Params: []domain.Param{{Name: "x", Typ: "int", Default: "0"}},
		Returns: &domain.Param{
			Name: domain.ReturnName,
			Typ:  "bool",
		},
	}
	require.NoError(t, st.PutIR("k1", ir))
	require.NoError(t, st.PutIR("k2", domain.IR{Type: domain.KindStatic, Params: []domain.Param{}}))

	got, found, err := st.GetIR("k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, ir, got)

	empty, found, err := st.GetIR("k2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotNil(t, empty.Params)

	n, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPutAndClear(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.PutIR("a", domain.IR{Type: domain.KindStatic, Params: []domain.Param{}}))
	require.NoError(t, st.PutIR("b", domain.IR{Type: domain.KindClass, Params: []domain.Param{}}))
	require.NoError(t, st.PutFiles(map[string]domain.FileRecord{
		"/p/a.py": {ModTime: 10, Size: 3, Symbols: []domain.SymbolDoc{{Path: "/p/a.py", Symbol: "f", Kind: domain.SymbolFunction, Line: 1}}},
	}))

	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{IRs: 2, Files: 1}, stats)

	rec, found, err := st.GetFile("/p/a.py")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(10), rec.ModTime)
	require.Len(t, rec.Symbols, 1)
	assert.Equal(t, "f", rec.Symbols[0].Symbol)

	require.NoError(t, st.Clear())
	stats, err = st.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestMigrations(t *testing.T) {
	st := newTestStore(t)
	cfg := config.DefaultConfig()

	result, err := st.CheckMigration(cfg)
	require.NoError(t, err)
	assert.True(t, result.NeedsMigration)
	assert.False(t, result.NeedsRebuild)

	reason, err := st.Prepare(cfg)
	require.NoError(t, err)
	assert.Empty(t, reason)

	info, err := st.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, info.Version)
	assert.Equal(t, ComputeConfigHash(cfg), info.ConfigHash)

	result, err = st.CheckMigration(cfg)
	require.NoError(t, err)
	assert.False(t, result.NeedsMigration)
	assert.False(t, result.NeedsRebuild)

	require.NoError(t, st.PutIR("k", domain.IR{Type: domain.KindStatic, Params: []domain.Param{}}))
	changed := config.DefaultConfig()
	changed.Parse.EmitDefaultDoc = true
	reason, err = st.Prepare(changed)
	require.NoError(t, err)
	assert.Equal(t, "parse configuration changed", reason)

	n, err := st.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	info, err = st.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, ComputeConfigHash(changed), info.ConfigHash)
}

func TestNewerSchemaIsRebuilt(t *testing.T) {
	st := newTestStore(t)
	cfg := config.DefaultConfig()
	require.NoError(t, st.SetSchemaInfo(&SchemaInfo{Version: CurrentSchemaVersion + 1}))

	result, err := st.CheckMigration(cfg)
	require.NoError(t, err)
	assert.True(t, result.NeedsRebuild)

	_, err = st.Prepare(cfg)
	require.NoError(t, err)
	info, err := st.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, info.Version)
}
