package telemetry

import "testing"

func TestFromJSONRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json", "[1,2,3]", `"scalar"`} {
		if _, err := FromJSON([]byte(raw)); err == nil {
			t.Errorf("FromJSON(%q) should fail", raw)
		}
	}
}

func TestSet(t *testing.T) {
	snap := Snapshot{}
	snap.Set("temperature.k", 78.45)
	snap.Set("temperature.c", -194.7)
	snap.Set("state", "ready")

	if got, ok := snap.Resolve("temperature.k"); !ok || got != "78.45" {
		t.Errorf("Resolve(temperature.k) = %q, %v", got, ok)
	}
	if got, ok := snap.Resolve("temperature.c"); !ok || got != "-194.7" {
		t.Errorf("Resolve(temperature.c) = %q, %v", got, ok)
	}
	if got, ok := snap.Resolve("state"); !ok || got != "ready" {
		t.Errorf("Resolve(state) = %q, %v", got, ok)
	}
}

func TestSetReplacesScalarWithBranch(t *testing.T) {
	snap := Snapshot{}
	snap.Set("a", 1)
	snap.Set("a.b", 2)
	if got, ok := snap.Resolve("a.b"); !ok || got != "2" {
		t.Errorf("Resolve(a.b) = %q, %v; want \"2\", true", got, ok)
	}
}

func TestMergeAtRoot(t *testing.T) {
	snap := Snapshot{}
	snap.Set("temperature.k", 1)
	snap.Set("state.name", "idle")

	other, err := FromJSON([]byte(`{"temperature":{"k":2},"flow":{"lpm":0.5}}`))
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}
	snap.MergeAt("", other)

	if got, _ := snap.Resolve("temperature.k"); got != "2" {
		t.Errorf("merge should overwrite leaf, got %q", got)
	}
	if got, _ := snap.Resolve("state.name"); got != "idle" {
		t.Errorf("merge must keep untouched branches, got %q", got)
	}
	if got, _ := snap.Resolve("flow.lpm"); got != "0.5" {
		t.Errorf("merge should add new branches, got %q", got)
	}
}

func TestMergeAtPrefix(t *testing.T) {
	snap := Snapshot{}
	snap.Set("station.temperature.k", 1)

	other, err := FromJSON([]byte(`{"pressure":{"torr":1e-6}}`))
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}
	snap.MergeAt("station", other)

	if got, ok := snap.Resolve("station.pressure.torr"); !ok || got != "1e-06" {
		t.Errorf("Resolve(station.pressure.torr) = %q, %v", got, ok)
	}
	if got, ok := snap.Resolve("station.temperature.k"); !ok || got != "1" {
		t.Errorf("prefix merge must keep sibling branches, got %q, %v", got, ok)
	}
}
