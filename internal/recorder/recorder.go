package recorder

// ChangeEvent is one applied parameter change.
type ChangeEvent struct {
	Source   string // control that produced the value: "slider", "web", "telegram"
	State    string
	LR0      float64
	TMax     float64
	YMax     float64
	CallEnd  float64
	ShortEnd float64
	RatioEnd float64
}

// Snapshot is the periodic summary of the frame on display.
type Snapshot struct {
	LR0      float64
	Updates  int
	TMax     float64
	CallEnd  float64
	ShortEnd float64
	RatioEnd float64
	Note     string
}

// Recorder persists parameter history for later analysis.
type Recorder interface {
	RecordChange(evt *ChangeEvent) error
	RecordSnapshot(snap *Snapshot) error
	Close() error
}
