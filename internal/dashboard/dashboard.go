package dashboard

import (
	"fmt"
	"time"
)

// WidgetType is the per-dataset widget shown by Serial Studio.
type WidgetType uint8

const (
	WidgetNone WidgetType = iota
	WidgetGauge
	WidgetBar
	WidgetLED
)

// String returns the Serial Studio widget name, or "" for WidgetNone and
// any out-of-range value.
func (w WidgetType) String() string {
	switch w {
	case WidgetGauge:
		return "gauge"
	case WidgetBar:
		return "bar"
	case WidgetLED:
		return "led"
	default:
		return ""
	}
}

// ParseWidgetType maps a config string to a WidgetType. The empty string
// means no widget.
func ParseWidgetType(s string) (WidgetType, error) {
	switch s {
	case "":
		return WidgetNone, nil
	case "gauge":
		return WidgetGauge, nil
	case "bar":
		return WidgetBar, nil
	case "led":
		return WidgetLED, nil
	default:
		return WidgetNone, fmt.Errorf("unknown widget %q", s)
	}
}

// GroupWidget is the group-level layout widget.
type GroupWidget uint8

const (
	GroupWidgetNone GroupWidget = iota
	GroupWidgetMultiplot
	GroupWidgetDatagrid
	GroupWidgetAccelerometer
)

// String returns the Serial Studio group widget name, or "" for
// GroupWidgetNone and any out-of-range value.
func (w GroupWidget) String() string {
	switch w {
	case GroupWidgetMultiplot:
		return "multiplot"
	case GroupWidgetDatagrid:
		return "datagrid"
	case GroupWidgetAccelerometer:
		return "accelerometer"
	default:
		return ""
	}
}

// ParseGroupWidget maps a config string to a GroupWidget. The empty string
// means no group widget.
func ParseGroupWidget(s string) (GroupWidget, error) {
	switch s {
	case "":
		return GroupWidgetNone, nil
	case "multiplot":
		return GroupWidgetMultiplot, nil
	case "datagrid":
		return GroupWidgetDatagrid, nil
	case "accelerometer":
		return GroupWidgetAccelerometer, nil
	default:
		return GroupWidgetNone, fmt.Errorf("unknown group widget %q", s)
	}
}

// Dataset describes a single data channel: display metadata plus the dotted
// telemetry key its live value is read from. An empty TelemetryKey means the
// dataset is static and never updated.
type Dataset struct {
	Title           string     `toml:"title"`
	Units           string     `toml:"units"`
	TelemetryKey    string     `toml:"telemetry_key"`
	Index           int        `toml:"index"`
	WidgetStr       string     `toml:"widget"`
	Widget          WidgetType `toml:"-"`
	WidgetMin       float64    `toml:"widget_min"`
	WidgetMax       float64    `toml:"widget_max"`
	PlotMin         float64    `toml:"plot_min"`
	PlotMax         float64    `toml:"plot_max"`
	AlarmLow        float64    `toml:"alarm_low"`
	AlarmHigh       float64    `toml:"alarm_high"`
	AlarmEnabled    bool       `toml:"alarm_enabled"`
	Graph           bool       `toml:"graph"`
	Log             bool       `toml:"log"`
	LED             bool       `toml:"led"`
	LEDHigh         int        `toml:"led_high"`
	OverviewDisplay bool       `toml:"overview"`
	FFT             bool       `toml:"fft"`
	FFTSamples      int        `toml:"fft_samples"`
	FFTSamplingRate int        `toml:"fft_sampling_rate"`
	XAxis           int        `toml:"x_axis"`
}

// Group is a named collection of datasets sharing a layout widget.
type Group struct {
	Title     string      `toml:"title"`
	WidgetStr string      `toml:"widget"`
	Widget    GroupWidget `toml:"-"`
	Datasets  []Dataset   `toml:"datasets"`
}

// Action is a command button Serial Studio renders next to the dashboard.
type Action struct {
	Title  string `toml:"title"`
	TxData string `toml:"tx_data"`
	Icon   string `toml:"icon"`
	EOL    string `toml:"eol"`
}

// TopicMap routes one MQTT topic's JSON payload into the telemetry tree
// under KeyPrefix ("" merges at the root).
type TopicMap struct {
	Topic     string `toml:"topic"`
	KeyPrefix string `toml:"key_prefix"`
}

// MQTTSource describes an MQTT subscription feeding the dashboard.
type MQTTSource struct {
	Broker   string     `toml:"broker"`
	ClientID string     `toml:"client_id"`
	Identity string     `toml:"identity"`
	Topics   []TopicMap `toml:"topics"`
}

// OIDMap binds one SNMP OID to a dotted telemetry key. A non-zero Scale
// multiplies the polled value before it is stored. Rate converts a
// monotonically increasing counter into a per-second rate across polls.
type OIDMap struct {
	OID   string  `toml:"oid"`
	Key   string  `toml:"key"`
	Scale float64 `toml:"scale"`
	Rate  bool    `toml:"rate"`
}

// SNMPSource describes a polled SNMP device feeding the dashboard.
type SNMPSource struct {
	Host        string        `toml:"host"`
	Port        int           `toml:"port"`
	Identity    string        `toml:"identity"`
	IntervalStr string        `toml:"interval"`
	Interval    time.Duration `toml:"-"`
	OIDs        []OIDMap      `toml:"oids"`
}

// Sources groups all telemetry producers declared by a dashboard.
type Sources struct {
	MQTT []MQTTSource `toml:"mqtt"`
	SNMP []SNMPSource `toml:"snmp"`
}

// Dashboard is a complete dashboard definition loaded from TOML: the static
// layout (title, actions, groups) plus the telemetry sources that drive it.
// Once a document has been built from it, the definition must not be
// mutated; the builder keeps references into it.
type Dashboard struct {
	Title       string        `toml:"title"`
	IntervalStr string        `toml:"interval"`
	Interval    time.Duration `toml:"-"`
	Actions     []Action      `toml:"actions"`
	Groups      []Group       `toml:"groups"`
	Sources     Sources       `toml:"sources"`
}
