package freshness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerName(t *testing.T) {
	assert.Equal(t, "src_vhdl_tb_base_pkg.vhd", MarkerName("src/vhdl/tb_base_pkg.vhd"))
	assert.Equal(t, "tb_hdl_tbTop.vhd", MarkerName("./tb/hdl/tbTop.vhd"))
	assert.Equal(t, "top.vhd", MarkerName("top.vhd"))
}

// writeSource creates base/rel with the given mtime.
func writeSource(t *testing.T, base, rel string, mtime time.Time) {
	t.Helper()
	p := filepath.Join(base, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("entity e is end;"), 0o644))
	require.NoError(t, os.Chtimes(p, mtime, mtime))
}

func TestCheckFresh(t *testing.T) {
	base := t.TempDir()
	stamps := filepath.Join(t.TempDir(), "TimeStamps")
	t0 := time.Now().Add(-time.Hour).Truncate(time.Second)

	t.Run("missing marker is stale", func(t *testing.T) {
		writeSource(t, base, "src/a.vhd", t0)
		fresh, err := NewCheck(base, stamps, "src/a.vhd").Fresh()
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("marker strictly newer skips", func(t *testing.T) {
		writeSource(t, base, "src/b.vhd", t0)
		c := NewCheck(base, stamps, "src/b.vhd")
		require.NoError(t, Touch(c.Marker, t0.Add(time.Minute)))

		fresh, err := c.Fresh()
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("source newer than marker runs", func(t *testing.T) {
		writeSource(t, base, "src/c.vhd", t0.Add(time.Minute))
		c := NewCheck(base, stamps, "src/c.vhd")
		require.NoError(t, Touch(c.Marker, t0))

		fresh, err := c.Fresh()
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("touched but unchanged source recompiles", func(t *testing.T) {
		writeSource(t, base, "src/d.vhd", t0)
		c := NewCheck(base, stamps, "src/d.vhd")
		require.NoError(t, Record(c))

		later := time.Now().Add(time.Minute)
		require.NoError(t, os.Chtimes(c.Source, later, later))

		fresh, err := c.Fresh()
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("missing source is an error", func(t *testing.T) {
		_, err := NewCheck(base, stamps, "src/missing.vhd").Fresh()
		assert.Error(t, err)
	})
}

func TestRecord_IsIdempotentAcrossRuns(t *testing.T) {
	base := t.TempDir()
	stamps := filepath.Join(t.TempDir(), "TimeStamps")
	t0 := time.Now().Add(-time.Hour)
	files := []string{"src/a.vhd", "src/b.vhd", "tb/top.vhd"}

	for _, f := range files {
		writeSource(t, base, f, t0)
	}

	// First pass: everything is stale, compile and record.
	for _, f := range files {
		c := NewCheck(base, stamps, f)
		fresh, err := c.Fresh()
		require.NoError(t, err)
		require.False(t, fresh)
		require.NoError(t, Record(c))
	}

	// Second pass with no source changes: everything is skipped.
	for _, f := range files {
		fresh, err := NewCheck(base, stamps, f).Fresh()
		require.NoError(t, err)
		assert.True(t, fresh, f)
	}

	entries, err := os.ReadDir(stamps)
	require.NoError(t, err)
	assert.Len(t, entries, len(files), "markers live in one flat directory")
}

func TestClean(t *testing.T) {
	stamps := filepath.Join(t.TempDir(), "TimeStamps")
	require.NoError(t, Touch(filepath.Join(stamps, "a.vhd"), time.Now()))

	require.NoError(t, Clean(stamps))
	_, err := os.Stat(stamps)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, Clean(stamps), "cleaning twice is fine")
}
