package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LeverageScope/internal/model"
)

func TestStore_LoadMissingFile(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "state", "session.json"))
	require.NoError(t, err)

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 0.0, st.LR0)
	assert.Equal(t, 0, st.Updates)
}

func TestStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := NewStore(path)
	require.NoError(t, err)

	in := &model.SessionState{LR0: 3.25, Updates: 4}
	require.NoError(t, s.Save(in))
	assert.False(t, in.UpdatedAt.IsZero())

	out, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 3.25, out.LR0)
	assert.Equal(t, 4, out.Updates)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	s, err := NewStore(path)
	require.NoError(t, err)

	_, err = s.Load()
	assert.Error(t, err)
}

func TestNewStore_EmptyPath(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}
