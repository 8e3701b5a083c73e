package cmd

import (
	"fmt"
	"os"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/dashboard"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/serialstudio"
)

// validateCmd loads a dashboard file and reports what the builder would do
// with it, including any registrations that would not fit the slot table.
func validateCmd(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ssdash validate DASHBOARD.toml")
		os.Exit(1)
	}

	dash, err := dashboard.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := dash.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
		os.Exit(1)
	}

	datasets := 0
	for _, grp := range dash.Groups {
		datasets += len(grp.Datasets)
	}
	candidates := dash.SlotCandidates()

	fmt.Printf("%s: OK\n", args[0])
	fmt.Printf("  title:     %s\n", dash.Title)
	fmt.Printf("  interval:  %s\n", dash.Interval)
	fmt.Printf("  actions:   %d\n", len(dash.Actions))
	fmt.Printf("  groups:    %d\n", len(dash.Groups))
	fmt.Printf("  datasets:  %d (%d with telemetry keys)\n", datasets, candidates)
	fmt.Printf("  sources:   %d mqtt, %d snmp\n",
		len(dash.Sources.MQTT), len(dash.Sources.SNMP))

	if candidates > serialstudio.MaxSlots {
		fmt.Printf("  WARNING: %d telemetry keys exceed the %d slot capacity; %d will be ignored\n",
			candidates, serialstudio.MaxSlots, candidates-serialstudio.MaxSlots)
	}
}
