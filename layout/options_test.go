package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaults_FillsZeroFields(t *testing.T) {
	o := Options{NodeWidth: 200}.WithDefaults()
	d := DefaultOptions()
	assert.Equal(t, 200.0, o.NodeWidth)
	assert.Equal(t, d.NodeHeight, o.NodeHeight)
	assert.Equal(t, Vertical, o.Orientation)
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("node_width: 180\norientation: horizontal\nreserve_collapsed: true\n"), 0o644))

	o, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, 180.0, o.NodeWidth)
	assert.Equal(t, 40.0, o.NodeHeight)
	assert.Equal(t, Horizontal, o.Orientation)
	assert.True(t, o.ReserveCollapsed)
}

func TestLoadOptions_Errors(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("orientation: diagonal\n"), 0o644))
	_, err = LoadOptions(path)
	assert.ErrorContains(t, err, "diagonal")
}

func TestSet(t *testing.T) {
	var nilSet Set
	assert.False(t, nilSet.Has("a"))

	s := NewSet("a", "b")
	c := s.Clone()
	delete(c, "a")
	assert.True(t, s.Has("a"))
	assert.False(t, c.Has("a"))
}
