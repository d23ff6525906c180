package profile

import "testing"

func TestProfiler_EmptyModeIsNoop(t *testing.T) {
	stop := Profiler{Path: t.TempDir()}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Fatalf("expected no-op profiler, got %T", stop)
	}

	stop.Stop()
}

func TestProfiler_UnknownModeIsNoop(t *testing.T) {
	stop := Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Fatalf("expected no-op profiler, got %T", stop)
	}

	stop.Stop()
}
