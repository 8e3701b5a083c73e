package source

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/dashboard"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/identity"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/telemetry"
)

// maxOIDsPerGet bounds one SNMP Get PDU; larger OID sets are fetched in
// chunks.
const maxOIDsPerGet = 25

// SNMPSource polls a device and stores each configured OID's value at its
// dotted telemetry key.
type SNMPSource struct {
	cfg    dashboard.SNMPSource
	creds  *identity.Identity
	log    *slog.Logger
	client *gosnmp.GoSNMP
	stopCh chan struct{}

	// prevCounters keeps the last raw reading per rate-mapped OID.
	prevCounters map[string]CounterSample
}

// NewSNMPSource creates a source for the given declaration. SNMP always
// needs credentials (at minimum a community string).
func NewSNMPSource(cfg dashboard.SNMPSource, creds *identity.Identity, log *slog.Logger) (*SNMPSource, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("snmp source: no host configured")
	}
	if len(cfg.OIDs) == 0 {
		return nil, fmt.Errorf("snmp source %s: no oids configured", cfg.Host)
	}
	client, err := newSNMPClient(cfg.Host, cfg.Port, creds, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return &SNMPSource{
		cfg:          cfg,
		creds:        creds,
		log:          log,
		client:       client,
		stopCh:       make(chan struct{}),
		prevCounters: make(map[string]CounterSample),
	}, nil
}

func (s *SNMPSource) Name() string {
	return "snmp:" + s.cfg.Host
}

// Run connects and polls at the configured interval until Stop.
func (s *SNMPSource) Run(updates chan<- Update) error {
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("connect to %s: %w", s.cfg.Host, err)
	}
	defer s.client.Conn.Close()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.poll(updates)
	for {
		select {
		case <-ticker.C:
			s.poll(updates)
		case <-s.stopCh:
			return nil
		}
	}
}

func (s *SNMPSource) Stop() {
	close(s.stopCh)
}

// poll fetches every configured OID and pushes one merged snapshot.
func (s *SNMPSource) poll(updates chan<- Update) {
	snap := telemetry.Snapshot{}
	got := 0

	for start := 0; start < len(s.cfg.OIDs); start += maxOIDsPerGet {
		end := min(start+maxOIDsPerGet, len(s.cfg.OIDs))
		chunk := s.cfg.OIDs[start:end]

		oids := make([]string, len(chunk))
		for i, m := range chunk {
			oids[i] = m.OID
		}

		result, err := s.client.Get(oids)
		if err != nil {
			s.log.Warn("snmp poll failed", "host", s.cfg.Host, "error", err)
			continue
		}

		now := time.Now()
		for _, v := range result.Variables {
			m, ok := s.mapping(v.Name)
			if !ok {
				continue
			}
			val, ok := s.value(v, m, now)
			if !ok {
				continue
			}
			snap.Set(m.Key, val)
			got++
		}
	}

	if got > 0 {
		if !push(updates, Update{Snap: snap}) {
			s.log.Debug("telemetry update dropped", "host", s.cfg.Host)
		}
	}
}

// mapping finds the OID binding for a response variable name, tolerating
// the leading dot gosnmp adds.
func (s *SNMPSource) mapping(name string) (dashboard.OIDMap, bool) {
	trimmed := strings.TrimPrefix(name, ".")
	for _, m := range s.cfg.OIDs {
		if m.OID == trimmed || m.OID == name {
			return m, true
		}
	}
	return dashboard.OIDMap{}, false
}

// value converts an SNMP variable into a telemetry leaf. Strings pass
// through; integer types become uint64, a per-second rate when the mapping
// asks for one, and a scaled float64 when Scale is set. The first reading
// of a rate-mapped counter only seeds the baseline.
func (s *SNMPSource) value(v gosnmp.SnmpPDU, m dashboard.OIDMap, now time.Time) (any, bool) {
	switch v.Type {
	case gosnmp.OctetString:
		b, ok := v.Value.([]byte)
		if !ok {
			return nil, false
		}
		return string(b), true
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return nil, false
	default:
		raw := gosnmp.ToBigInt(v.Value).Uint64()
		if m.Rate {
			curr := CounterSample{Value: raw, Timestamp: now}
			prev, seeded := s.prevCounters[m.OID]
			s.prevCounters[m.OID] = curr
			if !seeded {
				return nil, false
			}
			rate, err := CalculateRate(prev, curr)
			if err != nil {
				return nil, false
			}
			if m.Scale != 0 {
				rate *= m.Scale
			}
			return rate, true
		}
		if m.Scale != 0 {
			return float64(raw) * m.Scale, true
		}
		return raw, true
	}
}

// newSNMPClient builds a gosnmp client from a credential profile.
func newSNMPClient(host string, port int, creds *identity.Identity, timeout time.Duration) (*gosnmp.GoSNMP, error) {
	if creds == nil {
		return nil, fmt.Errorf("snmp source %s: no identity configured", host)
	}
	if port == 0 {
		port = dashboard.DefaultSNMPPort
	}
	client := &gosnmp.GoSNMP{
		Target:  host,
		Port:    uint16(port),
		Timeout: timeout,
		Retries: 2,
	}

	switch creds.Version {
	case "1":
		client.Version = gosnmp.Version1
		client.Community = creds.Community
	case "2c":
		client.Version = gosnmp.Version2c
		client.Community = creds.Community
	case "3":
		client.Version = gosnmp.Version3
		client.SecurityModel = gosnmp.UserSecurityModel
		client.MsgFlags = snmpv3MsgFlags(creds)
		client.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 creds.Username,
			AuthenticationProtocol:   snmpv3AuthProto(creds.AuthProto),
			AuthenticationPassphrase: creds.AuthPass,
			PrivacyProtocol:          snmpv3PrivProto(creds.PrivProto),
			PrivacyPassphrase:        creds.PrivPass,
		}
	default:
		return nil, fmt.Errorf("unsupported SNMP version: %s", creds.Version)
	}
	return client, nil
}

func snmpv3MsgFlags(creds *identity.Identity) gosnmp.SnmpV3MsgFlags {
	if creds.PrivProto != "" && creds.PrivPass != "" {
		return gosnmp.AuthPriv
	}
	if creds.AuthProto != "" && creds.AuthPass != "" {
		return gosnmp.AuthNoPriv
	}
	return gosnmp.NoAuthNoPriv
}

func snmpv3AuthProto(proto string) gosnmp.SnmpV3AuthProtocol {
	switch proto {
	case "MD5":
		return gosnmp.MD5
	case "SHA":
		return gosnmp.SHA
	case "SHA256":
		return gosnmp.SHA256
	case "SHA512":
		return gosnmp.SHA512
	default:
		return gosnmp.NoAuth
	}
}

func snmpv3PrivProto(proto string) gosnmp.SnmpV3PrivProtocol {
	switch proto {
	case "DES":
		return gosnmp.DES
	case "AES", "AES128":
		return gosnmp.AES
	case "AES192":
		return gosnmp.AES192
	case "AES256":
		return gosnmp.AES256
	default:
		return gosnmp.NoPriv
	}
}
