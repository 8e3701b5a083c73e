package cmd

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/config"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/dashboard"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/engine"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/identity"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/logging"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/server"
)

// Serve is the default mode: load every dashboard, start its telemetry
// sources and render loop, and broadcast frames over TCP and HTTP until
// interrupted.
func Serve(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config.toml")
	dashboardsDir := fs.String("dashboards", "", "Dashboards directory override")
	only := fs.String("dashboard", "", "Serve only the named dashboard")
	pretty := fs.Bool("pretty", false, "Serialize frames as indented JSON")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg := loadAppConfig(*configPath)
	log := logging.New(os.Stdout, cfg.LogLevel)

	dir := cfg.DashboardsDir
	if *dashboardsDir != "" {
		dir = *dashboardsDir
	}
	if dir == "" {
		d, err := config.GetDashboardsDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		dir = d
	}

	names, err := dashboard.List(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading dashboards from %s: %v\n", dir, err)
		os.Exit(1)
	}
	if *only != "" {
		names = []string{*only}
	}
	if len(names) == 0 {
		fmt.Fprintf(os.Stderr, "No dashboards found in %s (try 'ssdash config init')\n", dir)
		os.Exit(1)
	}

	opts := engine.Options{
		Pretty:     cfg.Pretty || *pretty,
		BufferSize: cfg.FrameBufferSize,
		Logger:     log,
	}

	mgr := engine.NewManager()
	var provider identity.Provider
	for _, name := range names {
		dash, err := dashboard.Load(filepath.Join(dir, name+".toml"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := dash.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: dashboard %s: %v\n", name, err)
			os.Exit(1)
		}
		if provider == nil && referencesIdentities(dash) {
			provider = openStore()
		}
		if err := mgr.Start(name, dash, provider, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Info("dashboard started", "name", name, "title", dash.Title)
	}
	defer mgr.StopAll()

	httpSrv := server.NewHTTPServer(cfg.ListenHTTP, mgr, log)
	go func() {
		if err := httpSrv.Serve(); err != nil {
			log.Error("http server failed", "error", err)
		}
	}()
	defer httpSrv.Close()

	// The raw TCP socket carries a single dashboard; pick the first name in
	// sorted order. Additional dashboards are reachable over HTTP/WebSocket.
	if s, ok := mgr.Get(names[0]); ok {
		tcpSrv := server.NewTCPServer(cfg.ListenTCP, s, log)
		go func() {
			if err := tcpSrv.Serve(); err != nil {
				log.Error("tcp server failed", "error", err)
			}
		}()
		defer tcpSrv.Close()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutting down", "signal", sig.String())
}

func loadAppConfig(path string) *config.Config {
	if path == "" {
		cfgDir, err := config.GetConfigDir()
		if err != nil {
			return config.DefaultConfig()
		}
		path = filepath.Join(cfgDir, "config.toml")
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func referencesIdentities(dash *dashboard.Dashboard) bool {
	for _, src := range dash.Sources.MQTT {
		if src.Identity != "" {
			return true
		}
	}
	for _, src := range dash.Sources.SNMP {
		if src.Identity != "" {
			return true
		}
	}
	return false
}
