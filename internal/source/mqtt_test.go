package source

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/dashboard"
)

func TestNewMQTTSourceValidation(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, err := NewMQTTSource(dashboard.MQTTSource{}, nil, log); err == nil {
		t.Error("missing broker should be an error")
	}
	if _, err := NewMQTTSource(dashboard.MQTTSource{Broker: "tcp://localhost:1883"}, nil, log); err == nil {
		t.Error("missing topics should be an error")
	}

	src, err := NewMQTTSource(dashboard.MQTTSource{
		Broker: "tcp://localhost:1883",
		Topics: []dashboard.TopicMap{{Topic: "station/telemetry"}},
	}, nil, log)
	if err != nil {
		t.Fatalf("NewMQTTSource() error: %v", err)
	}
	if src.Name() != "mqtt:tcp://localhost:1883" {
		t.Errorf("Name() = %q", src.Name())
	}
}

func TestMQTTClientID(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	topics := []dashboard.TopicMap{{Topic: "t"}}

	src, err := NewMQTTSource(dashboard.MQTTSource{
		Broker: "tcp://b:1883", ClientID: "fixed", Topics: topics,
	}, nil, log)
	if err != nil {
		t.Fatal(err)
	}
	if src.clientID() != "fixed" {
		t.Errorf("clientID() = %q, want fixed", src.clientID())
	}

	src, err = NewMQTTSource(dashboard.MQTTSource{
		Broker: "tcp://b:1883", Topics: topics,
	}, nil, log)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(src.clientID(), "ssdash-") {
		t.Errorf("generated clientID %q should carry the app prefix", src.clientID())
	}
}
