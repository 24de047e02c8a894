package recorder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RecordChange(t *testing.T) {
	r := newTestRecorder(t)

	last, err := r.LastChange()
	require.NoError(t, err)
	assert.Nil(t, last)

	require.NoError(t, r.RecordChange(&ChangeEvent{Source: "web", State: "UPDATED", LR0: 2, TMax: 0.49, YMax: 22.8, CallEnd: 51}))
	require.NoError(t, r.RecordChange(&ChangeEvent{Source: "slider", State: "UPDATED", LR0: 5, TMax: 0.19, ShortEnd: 119}))

	n, err := r.ChangeCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	last, err = r.LastChange()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "slider", last.Source)
	assert.Equal(t, 5.0, last.LR0)
	assert.Equal(t, 119.0, last.ShortEnd)
}

func TestSQLiteRecorder_RecordSnapshot(t *testing.T) {
	r := newTestRecorder(t)

	require.NoError(t, r.RecordSnapshot(&Snapshot{LR0: 3, Updates: 7, TMax: 0.3233, Note: "cron"}))

	var (
		updates int
		note    string
	)
	require.NoError(t, r.db.QueryRow(`SELECT updates, note FROM snapshots`).Scan(&updates, &note))
	assert.Equal(t, 7, updates)
	assert.Equal(t, "cron", note)
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordChange(&ChangeEvent{Source: "web", LR0: 4}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()
	n, err := r.ChangeCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordChange(&ChangeEvent{}))
	assert.NoError(t, rec.RecordSnapshot(&Snapshot{}))
	assert.NoError(t, rec.Close())
}
