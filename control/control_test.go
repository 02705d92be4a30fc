package control

import (
	"testing"
)

func TestMetricsRegistry_CountersAndGauges(t *testing.T) {
	mr := NewMetricsRegistry()
	mr.Inc("commands")
	if v := mr.Add("commands", 4); v != 5 {
		t.Fatalf("Add returned %d, want 5", v)
	}
	mr.Set("publications.active", 2)

	snap := mr.GetSnapshot()
	if snap["commands"] != int64(5) {
		t.Errorf("commands = %v", snap["commands"])
	}
	if snap["publications.active"] != 2 {
		t.Errorf("gauge = %v", snap["publications.active"])
	}
	if mr.Counter("missing") != 0 {
		t.Error("missing counter should read zero")
	}
	if mr.Updated().IsZero() {
		t.Error("Updated not recorded")
	}
}

func TestConfigStore_ListenersSeeMergedSnapshot(t *testing.T) {
	cs := NewConfigStore()
	cs.SetConfig(map[string]any{"a": 1})

	var seen map[string]any
	cs.OnReload(func(m map[string]any) { seen = m })
	cs.SetConfig(map[string]any{"b": 2})

	if seen["a"] != 1 || seen["b"] != 2 {
		t.Fatalf("listener snapshot = %v", seen)
	}
	seen["a"] = 99
	if cs.GetSnapshot()["a"] != 1 {
		t.Error("snapshot aliases store state")
	}
}

func TestDebugProbes_DumpState(t *testing.T) {
	dp := NewDebugProbes()
	RegisterPlatformProbes(dp)
	dp.RegisterProbe("x", func() any { return "y" })
	state := dp.DumpState()
	if state["x"] != "y" {
		t.Errorf("x = %v", state["x"])
	}
	if n, ok := state["platform.cpus"].(int); !ok || n < 1 {
		t.Errorf("platform.cpus = %v", state["platform.cpus"])
	}
}
