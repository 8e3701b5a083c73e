package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied by Load for fields left unset in the TOML file.
const (
	DefaultInterval        = time.Second
	DefaultFFTSamples      = 256
	DefaultFFTSamplingRate = 100
	DefaultActionEOL       = "\n"
	DefaultSNMPPort        = 161
)

// Load reads a TOML dashboard definition, applies defaults, and resolves
// widget names to their enum values. Unknown widget names are an error.
func Load(path string) (*Dashboard, error) {
	var dash Dashboard
	if _, err := toml.DecodeFile(path, &dash); err != nil {
		return nil, fmt.Errorf("parse dashboard %s: %w", path, err)
	}
	if err := applyDefaults(&dash); err != nil {
		return nil, fmt.Errorf("dashboard %s: %w", path, err)
	}
	return &dash, nil
}

func applyDefaults(dash *Dashboard) error {
	if dash.IntervalStr != "" {
		d, err := time.ParseDuration(dash.IntervalStr)
		if err != nil {
			return fmt.Errorf("invalid interval %q: %w", dash.IntervalStr, err)
		}
		dash.Interval = d
	}
	if dash.Interval <= 0 {
		dash.Interval = DefaultInterval
	}

	for i := range dash.Actions {
		if dash.Actions[i].EOL == "" {
			dash.Actions[i].EOL = DefaultActionEOL
		}
	}

	for gi := range dash.Groups {
		grp := &dash.Groups[gi]
		w, err := ParseGroupWidget(grp.WidgetStr)
		if err != nil {
			return fmt.Errorf("group %q: %w", grp.Title, err)
		}
		grp.Widget = w

		for di := range grp.Datasets {
			ds := &grp.Datasets[di]
			dw, err := ParseWidgetType(ds.WidgetStr)
			if err != nil {
				return fmt.Errorf("group %q dataset %q: %w", grp.Title, ds.Title, err)
			}
			ds.Widget = dw
			if ds.FFTSamples == 0 {
				ds.FFTSamples = DefaultFFTSamples
			}
			if ds.FFTSamplingRate == 0 {
				ds.FFTSamplingRate = DefaultFFTSamplingRate
			}
			// x_axis 0 means unset; -1 tells Serial Studio to use the default axis.
			if ds.XAxis == 0 {
				ds.XAxis = -1
			}
		}
	}

	for i := range dash.Sources.SNMP {
		src := &dash.Sources.SNMP[i]
		if src.IntervalStr != "" {
			d, err := time.ParseDuration(src.IntervalStr)
			if err != nil {
				return fmt.Errorf("snmp source %s: invalid interval %q: %w", src.Host, src.IntervalStr, err)
			}
			src.Interval = d
		}
		if src.Interval <= 0 {
			src.Interval = dash.Interval
		}
		if src.Port == 0 {
			src.Port = DefaultSNMPPort
		}
	}
	return nil
}

// List returns the base names (without .toml extension) of all dashboard
// files found in dir.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	return names, nil
}
