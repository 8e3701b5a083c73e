package serialstudio

import (
	"fmt"
	"testing"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/dashboard"
)

func testDashboard() *dashboard.Dashboard {
	return &dashboard.Dashboard{
		Title: "Test Dashboard",
		Actions: []dashboard.Action{
			{Title: "Go", TxData: "go", Icon: "Play", EOL: "\n"},
		},
		Groups: []dashboard.Group{
			{
				Title:  "Test Group",
				Widget: dashboard.GroupWidgetMultiplot,
				Datasets: []dashboard.Dataset{
					{
						Title:           "Temp K",
						Units:           "K",
						TelemetryKey:    "temperature.k",
						Index:           4,
						Widget:          dashboard.WidgetGauge,
						WidgetMin:       60,
						WidgetMax:       300,
						PlotMin:         60,
						PlotMax:         310,
						AlarmLow:        60,
						AlarmHigh:       300,
						Graph:           true,
						Log:             true,
						OverviewDisplay: true,
						FFTSamples:      256,
						FFTSamplingRate: 100,
						XAxis:           -1,
					},
					{
						Title:        "State",
						TelemetryKey: "state.name",
						Index:        2,
						XAxis:        -1,
					},
				},
			},
		},
	}
}

func TestNewProjectNilDashboard(t *testing.T) {
	if _, err := NewProject(nil); err == nil {
		t.Error("expected error for nil dashboard")
	}
}

func TestNewProjectStructure(t *testing.T) {
	dash := testDashboard()
	p, err := NewProject(dash)
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}

	doc := p.Document()
	if doc.Title != "Test Dashboard" {
		t.Errorf("expected title 'Test Dashboard', got %q", doc.Title)
	}
	if len(doc.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(doc.Actions))
	}
	if len(doc.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(doc.Groups))
	}
	if len(doc.Groups[0].Datasets) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(doc.Groups[0].Datasets))
	}
	if doc.Checksum != "" {
		t.Errorf("checksum should be empty, got %q", doc.Checksum)
	}
	if doc.Decoder != 0 {
		t.Errorf("decoder should be 0, got %d", doc.Decoder)
	}
	if doc.HexadecimalDelimiters {
		t.Error("hexadecimalDelimiters should be false")
	}
	if !doc.DashboardLayout.AutoLayout {
		t.Error("autoLayout should be true")
	}
	if doc.DashboardLayout.WindowOrder == nil || len(doc.DashboardLayout.WindowOrder) != 0 {
		t.Error("windowOrder should be an empty array")
	}
}

func TestNewProjectActionDefaults(t *testing.T) {
	dash := testDashboard()
	dash.Actions = append(dash.Actions, dashboard.Action{Title: "Bare"})
	p, err := NewProject(dash)
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}

	a := p.Document().Actions[0]
	if a.AutoExecuteOnConnect || a.Binary {
		t.Error("autoExecuteOnConnect and binary should default to false")
	}
	if a.TimerIntervalMs != 100 {
		t.Errorf("expected timerIntervalMs 100, got %d", a.TimerIntervalMs)
	}
	if a.TimerMode != 0 {
		t.Errorf("expected timerMode 0, got %d", a.TimerMode)
	}
	if a.EOL != "\n" {
		t.Errorf("expected eol %q, got %q", "\n", a.EOL)
	}

	bare := p.Document().Actions[1]
	if bare.EOL != "\n" {
		t.Errorf("unset eol should default to newline, got %q", bare.EOL)
	}
	if bare.Icon != "" || bare.TxData != "" {
		t.Error("unset icon and txData should be empty strings")
	}
}

func TestNewProjectWidgetMapping(t *testing.T) {
	dash := testDashboard()
	p, err := NewProject(dash)
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}

	doc := p.Document()
	if doc.Groups[0].Widget != "multiplot" {
		t.Errorf("expected group widget 'multiplot', got %q", doc.Groups[0].Widget)
	}
	if doc.Groups[0].Datasets[0].Widget != "gauge" {
		t.Errorf("expected dataset widget 'gauge', got %q", doc.Groups[0].Datasets[0].Widget)
	}
	if doc.Groups[0].Datasets[1].Widget != "" {
		t.Errorf("unset dataset widget should map to empty string, got %q",
			doc.Groups[0].Datasets[1].Widget)
	}
}

func TestNewProjectInitialValues(t *testing.T) {
	p, err := NewProject(testDashboard())
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}
	for gi, grp := range p.Document().Groups {
		for di, ds := range grp.Datasets {
			if ds.Value != "0" {
				t.Errorf("groups[%d].datasets[%d].value = %q, want \"0\"", gi, di, ds.Value)
			}
			if ds.FFTMax != 0 || ds.FFTMin != 0 {
				t.Errorf("groups[%d].datasets[%d] fftMax/fftMin should be 0", gi, di)
			}
		}
	}
}

func TestNewProjectSlots(t *testing.T) {
	p, err := NewProject(testDashboard())
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}

	slots := p.Slots()
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].Key != "temperature.k" || slots[0].Group != 0 || slots[0].Dataset != 0 {
		t.Errorf("unexpected first slot: %+v", slots[0])
	}
	if slots[1].Key != "state.name" || slots[1].Group != 0 || slots[1].Dataset != 1 {
		t.Errorf("unexpected second slot: %+v", slots[1])
	}
	if p.Dropped() != 0 {
		t.Errorf("expected 0 dropped, got %d", p.Dropped())
	}
}

func TestNewProjectUnkeyedDatasetNotSlotted(t *testing.T) {
	dash := testDashboard()
	dash.Groups[0].Datasets = append(dash.Groups[0].Datasets,
		dashboard.Dataset{Title: "Static", Index: 9})
	p, err := NewProject(dash)
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}
	if len(p.Slots()) != 2 {
		t.Errorf("dataset without telemetry key must not register a slot, got %d slots",
			len(p.Slots()))
	}
}

func TestNewProjectSlotOverflow(t *testing.T) {
	dash := &dashboard.Dashboard{Title: "Big"}
	grp := dashboard.Group{Title: "G"}
	for i := 0; i < MaxSlots+5; i++ {
		grp.Datasets = append(grp.Datasets, dashboard.Dataset{
			Title:        fmt.Sprintf("DS %d", i),
			TelemetryKey: fmt.Sprintf("ds.v%d", i),
			Index:        i + 1,
		})
	}
	dash.Groups = []dashboard.Group{grp}

	p, err := NewProject(dash)
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}
	if len(p.Slots()) != MaxSlots {
		t.Errorf("expected %d slots, got %d", MaxSlots, len(p.Slots()))
	}
	if p.Dropped() != 5 {
		t.Errorf("expected 5 dropped registrations, got %d", p.Dropped())
	}
	// The document itself still carries every dataset.
	if n := len(p.Document().Groups[0].Datasets); n != MaxSlots+5 {
		t.Errorf("expected %d datasets in document, got %d", MaxSlots+5, n)
	}
}

func TestNewProjectEmptyTitleDefault(t *testing.T) {
	p, err := NewProject(&dashboard.Dashboard{})
	if err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}
	if p.Document().Title != "Dashboard" {
		t.Errorf("expected default title 'Dashboard', got %q", p.Document().Title)
	}
}
