package recorder

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordChange(_ *ChangeEvent) error { return nil }
func (n *NoopRecorder) RecordSnapshot(_ *Snapshot) error  { return nil }
func (n *NoopRecorder) Close() error                      { return nil }
