package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/dashboard"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/serialstudio"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/telemetry"
)

// renderCmd builds a dashboard file into a framed document in one shot,
// optionally applying a telemetry JSON file first. Useful for inspecting
// exactly what viewers will receive, without any broker or device.
func renderCmd(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	telemetryPath := fs.String("telemetry", "", "JSON file with a telemetry snapshot to apply")
	pretty := fs.Bool("pretty", false, "Indent the JSON payload")
	outPath := fs.String("o", "", "Write the frame to a file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ssdash render [--telemetry FILE] [--pretty] [-o FILE] DASHBOARD.toml")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: DASHBOARD.toml argument is required")
		fs.Usage()
		os.Exit(1)
	}

	dash, err := dashboard.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	project, err := serialstudio.NewProject(dash)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if n := project.Dropped(); n > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d telemetry keys dropped (slot capacity %d)\n",
			n, serialstudio.MaxSlots)
	}

	if *telemetryPath != "" {
		payload, err := os.ReadFile(*telemetryPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading telemetry: %v\n", err)
			os.Exit(1)
		}
		snap, err := telemetry.FromJSON(payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		project.Update(snap)
	}

	size := project.EstimateSize() * 2
	if *pretty {
		size = project.EstimateSize() * serialstudio.PrettyFactor
	}
	buf := make([]byte, size)
	n := project.Serialize(buf, *pretty)
	if n == 0 {
		fmt.Fprintln(os.Stderr, "Error: serialization failed")
		os.Exit(1)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, buf[:n], 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		return
	}
	os.Stdout.Write(buf[:n])
}
