package serialstudio

import (
	"testing"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/telemetry"
)

func snapFromJSON(t *testing.T, raw string) telemetry.Snapshot {
	t.Helper()
	snap, err := telemetry.FromJSON([]byte(raw))
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}
	return snap
}

func TestUpdateSetsValues(t *testing.T) {
	p, err := NewProject(testDashboard())
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}

	p.Update(snapFromJSON(t, `{"temperature":{"k":78.45},"state":{"name":"cooling"}}`))

	doc := p.Document()
	if got := doc.Groups[0].Datasets[0].Value; got != "78.45" {
		t.Errorf("expected value \"78.45\", got %q", got)
	}
	if got := doc.Groups[0].Datasets[1].Value; got != "cooling" {
		t.Errorf("expected value \"cooling\", got %q", got)
	}
}

func TestUpdateKeepsLastKnownGood(t *testing.T) {
	p, err := NewProject(testDashboard())
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}

	p.Update(snapFromJSON(t, `{"temperature":{"k":78.45},"state":{"name":"cooling"}}`))
	// Second snapshot is missing state.name entirely.
	p.Update(snapFromJSON(t, `{"temperature":{"k":79.1}}`))

	doc := p.Document()
	if got := doc.Groups[0].Datasets[0].Value; got != "79.1" {
		t.Errorf("expected value \"79.1\", got %q", got)
	}
	if got := doc.Groups[0].Datasets[1].Value; got != "cooling" {
		t.Errorf("missing key must keep prior value, got %q", got)
	}
}

func TestUpdateNonCumulative(t *testing.T) {
	p, err := NewProject(testDashboard())
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}

	for _, want := range []string{"1", "2", "3"} {
		p.Update(snapFromJSON(t, `{"temperature":{"k":`+want+`},"state":{"name":"x"}}`))
		if got := p.Document().Groups[0].Datasets[0].Value; got != want {
			t.Errorf("expected value %q after update, got %q", want, got)
		}
	}
}

func TestUpdateIntermediateNodeIgnored(t *testing.T) {
	p, err := NewProject(testDashboard())
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}

	// temperature resolves to an object, not a leaf.
	p.Update(snapFromJSON(t, `{"temperature":{"k":{"nested":1}}}`))
	if got := p.Document().Groups[0].Datasets[0].Value; got != "0" {
		t.Errorf("non-scalar leaf must leave prior value, got %q", got)
	}
}

func TestUpdateEmptySnapshot(t *testing.T) {
	p, err := NewProject(testDashboard())
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}
	p.Update(snapFromJSON(t, `{"temperature":{"k":42}}`))
	p.Update(telemetry.Snapshot{})
	if got := p.Document().Groups[0].Datasets[0].Value; got != "42" {
		t.Errorf("empty snapshot must not clear values, got %q", got)
	}
}
