package source

import (
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/dashboard"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/identity"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/telemetry"
)

// MQTTSource subscribes to one broker and turns JSON payloads on the
// configured topics into telemetry updates.
type MQTTSource struct {
	cfg    dashboard.MQTTSource
	creds  *identity.Identity
	log    *slog.Logger
	client mqtt.Client
	stopCh chan struct{}
}

// NewMQTTSource creates a source for the given declaration. creds may be
// nil for anonymous brokers.
func NewMQTTSource(cfg dashboard.MQTTSource, creds *identity.Identity, log *slog.Logger) (*MQTTSource, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt source: no broker configured")
	}
	if len(cfg.Topics) == 0 {
		return nil, fmt.Errorf("mqtt source %s: no topics configured", cfg.Broker)
	}
	return &MQTTSource{
		cfg:    cfg,
		creds:  creds,
		log:    log,
		stopCh: make(chan struct{}),
	}, nil
}

func (s *MQTTSource) Name() string {
	return "mqtt:" + s.cfg.Broker
}

// Run connects, subscribes to every configured topic, and blocks until
// Stop. The paho client reconnects and resubscribes on its own after
// broker hiccups.
func (s *MQTTSource) Run(updates chan<- Update) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.cfg.Broker)
	opts.SetClientID(s.clientID())
	if s.creds != nil {
		opts.SetUsername(s.creds.Username)
		opts.SetPassword(s.creds.Password)
	}
	opts.SetKeepAlive(60 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(10 * time.Second)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		s.log.Info("mqtt connected", "broker", s.cfg.Broker)
		s.subscribe(c, updates)
	})
	opts.SetConnectionLostHandler(func(c mqtt.Client, err error) {
		s.log.Warn("mqtt connection lost", "broker", s.cfg.Broker, "error", err)
	})

	s.client = mqtt.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to %s: %w", s.cfg.Broker, token.Error())
	}

	<-s.stopCh
	s.client.Disconnect(250)
	return nil
}

func (s *MQTTSource) Stop() {
	close(s.stopCh)
}

func (s *MQTTSource) clientID() string {
	if s.cfg.ClientID != "" {
		return s.cfg.ClientID
	}
	return fmt.Sprintf("ssdash-%d", time.Now().UnixNano())
}

func (s *MQTTSource) subscribe(c mqtt.Client, updates chan<- Update) {
	for _, tm := range s.cfg.Topics {
		prefix := tm.KeyPrefix
		token := c.Subscribe(tm.Topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			snap, err := telemetry.FromJSON(msg.Payload())
			if err != nil {
				s.log.Debug("bad telemetry payload",
					"topic", msg.Topic(), "error", err)
				return
			}
			if !push(updates, Update{Prefix: prefix, Snap: snap}) {
				s.log.Debug("telemetry update dropped", "topic", msg.Topic())
			}
		})
		if token.Wait() && token.Error() != nil {
			s.log.Error("mqtt subscribe failed",
				"topic", tm.Topic, "error", token.Error())
		}
	}
}
