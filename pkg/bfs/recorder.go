package bfs

// Recorder accumulates Step snapshots in order. Every recorded step is deep
// copied on the way in and on the way out, so neither the live traversal
// state nor callers of AllSteps can alter a recorded snapshot.
type Recorder struct {
	steps []Step
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends a snapshot of step, numbering it with the next 1-based index.
func (r *Recorder) Record(step Step) {
	snapshot := step.clone()
	snapshot.Step = len(r.steps) + 1
	r.steps = append(r.steps, snapshot)
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int {
	return len(r.steps)
}

// AllSteps returns a copy of every recorded step in recording order.
// It may be called any number of times.
func (r *Recorder) AllSteps() []Step {
	out := make([]Step, len(r.steps))
	for i, s := range r.steps {
		out[i] = s.clone()
	}
	return out
}
