package serialstudio

import (
	"errors"
	"log/slog"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/dashboard"
)

// MaxSlots is the capacity of the value-slot table: the maximum number of
// dataset→telemetry bindings a single project can carry.
const MaxSlots = 48

// ErrNilDashboard is returned by NewProject when no definition is supplied.
var ErrNilDashboard = errors.New("nil dashboard definition")

// Slot binds a dotted telemetry key to a dataset position in the document.
// The key string is shared with the dashboard definition, which must
// therefore outlive the project.
type Slot struct {
	Key     string
	Group   int
	Dataset int
}

// Project owns one built document and its slot table. It is not safe for
// concurrent use; the caller serializes Update and Serialize (the engine
// runs both on a single goroutine).
type Project struct {
	doc     Document
	slots   []Slot
	dropped int
	log     *slog.Logger
}

// Option configures a Project at construction time.
type Option func(*Project)

// WithLogger installs a logger used only to report serialize-buffer
// failures. Without it failures are still fully described by the zero
// return value.
func WithLogger(log *slog.Logger) Option {
	return func(p *Project) {
		p.log = log
	}
}

// NewProject builds the document and the slot table from dash in a single
// pass. Datasets with a telemetry key are registered in document order until
// MaxSlots is reached; later candidates are skipped and counted in
// Dropped().
func NewProject(dash *dashboard.Dashboard, opts ...Option) (*Project, error) {
	if dash == nil {
		return nil, ErrNilDashboard
	}

	p := &Project{
		slots: make([]Slot, 0, MaxSlots),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.doc = Document{
		Title:    dash.Title,
		Actions:  buildActions(dash.Actions),
		Checksum: "",
		Decoder:  0,
		DashboardLayout: DashboardLayout{
			AutoLayout:  true,
			WindowOrder: []string{},
		},
	}
	if p.doc.Title == "" {
		p.doc.Title = "Dashboard"
	}
	p.buildGroups(dash.Groups)

	if p.dropped > 0 && p.log != nil {
		p.log.Warn("telemetry slot capacity exceeded",
			"capacity", MaxSlots, "dropped", p.dropped)
	}
	return p, nil
}

func buildActions(actions []dashboard.Action) []ActionNode {
	nodes := make([]ActionNode, 0, len(actions))
	for _, a := range actions {
		eol := a.EOL
		if eol == "" {
			eol = "\n"
		}
		nodes = append(nodes, ActionNode{
			AutoExecuteOnConnect: false,
			Binary:               false,
			EOL:                  eol,
			Icon:                 a.Icon,
			TimerIntervalMs:      100,
			TimerMode:            0,
			Title:                a.Title,
			TxData:               a.TxData,
		})
	}
	return nodes
}

func (p *Project) buildGroups(groups []dashboard.Group) {
	p.doc.Groups = make([]GroupNode, 0, len(groups))

	for gi, grp := range groups {
		node := GroupNode{
			Title:    grp.Title,
			Widget:   grp.Widget.String(),
			Datasets: make([]DatasetNode, 0, len(grp.Datasets)),
		}

		for di, ds := range grp.Datasets {
			node.Datasets = append(node.Datasets, DatasetNode{
				AlarmEnabled:    ds.AlarmEnabled,
				AlarmHigh:       ds.AlarmHigh,
				AlarmLow:        ds.AlarmLow,
				FFT:             ds.FFT,
				FFTMax:          0,
				FFTMin:          0,
				FFTSamples:      ds.FFTSamples,
				FFTSamplingRate: ds.FFTSamplingRate,
				Graph:           ds.Graph,
				Index:           ds.Index,
				LED:             ds.LED,
				LEDHigh:         ds.LEDHigh,
				Log:             ds.Log,
				OverviewDisplay: ds.OverviewDisplay,
				PlotMax:         ds.PlotMax,
				PlotMin:         ds.PlotMin,
				Title:           ds.Title,
				Units:           ds.Units,
				Value:           "0", // placeholder until the first Update
				Widget:          ds.Widget.String(),
				WidgetMax:       ds.WidgetMax,
				WidgetMin:       ds.WidgetMin,
				XAxis:           ds.XAxis,
			})

			if ds.TelemetryKey == "" {
				continue
			}
			if len(p.slots) < MaxSlots {
				p.slots = append(p.slots, Slot{Key: ds.TelemetryKey, Group: gi, Dataset: di})
			} else {
				p.dropped++
			}
		}
		p.doc.Groups = append(p.doc.Groups, node)
	}
}

// Document exposes the built tree, mainly for inspection in tests. Callers
// must not change its shape.
func (p *Project) Document() *Document {
	return &p.doc
}

// Slots returns the value-slot table in registration (document) order.
func (p *Project) Slots() []Slot {
	return p.slots
}

// Dropped reports how many telemetry registrations were skipped because the
// slot table was full.
func (p *Project) Dropped() int {
	return p.dropped
}
