package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/config"
)

func configCmd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: ssdash config <path|init>")
		os.Exit(1)
	}

	switch args[0] {
	case "path":
		configPath()
	case "init":
		configInit()
	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: ssdash config <path|init>")
		os.Exit(1)
	}
}

func configPath() {
	dir, err := config.GetConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(dir)
}

// configInit writes a default config.toml and an example dashboard so a new
// install has something to serve immediately.
func configInit() {
	if err := config.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config directories: %v\n", err)
		os.Exit(1)
	}

	cfgDir, err := config.GetConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfgPath := filepath.Join(cfgDir, "config.toml")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.SaveConfig(config.DefaultConfig(), cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", cfgPath)
	} else {
		fmt.Printf("Keeping existing %s\n", cfgPath)
	}

	dashDir, err := config.GetDashboardsDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	examplePath := filepath.Join(dashDir, "example.toml")
	if _, err := os.Stat(examplePath); os.IsNotExist(err) {
		if err := os.WriteFile(examplePath, []byte(exampleDashboard), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing example dashboard: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", examplePath)
	} else {
		fmt.Printf("Keeping existing %s\n", examplePath)
	}
}

const exampleDashboard = `title = "Example Station"
interval = "1s"

[[actions]]
title = "Start"
tx_data = "start"
icon = "Play"

[[groups]]
title = "Environment"
widget = "multiplot"

[[groups.datasets]]
title = "Temperature"
units = "K"
telemetry_key = "temperature.k"
index = 1
widget = "gauge"
widget_min = 60.0
widget_max = 300.0
plot_min = 60.0
plot_max = 310.0
graph = true
log = true
overview = true

[[groups.datasets]]
title = "State"
telemetry_key = "state.name"
index = 2

[[sources.mqtt]]
broker = "tcp://localhost:1883"

[[sources.mqtt.topics]]
topic = "station/telemetry"
`
