package machine

// frame records one active call, per spec.md §4.5's call-frame stack:
// `{ip, frame_base, closure}`.
type frame struct {
	closure   *Closure
	ip        int
	frameBase int // absolute index into the thread's value stack
}
