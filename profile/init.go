package profile

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Path is the directory profiles are written to.
	Path string
	// Quiet suppresses the messages printed by the profiler on start/stop.
	Quiet bool
}

// Start begins profiling and returns a handle whose Stop method flushes the
// profile. If the binary was built without the pprof tag or Mode is empty,
// the handle is a no-op. Both Start and Stop are always safe to call.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p.Mode, p.Path, p.Quiet)
}

type ignore struct{}

func (ignore) Stop() {}
