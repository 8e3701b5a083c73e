package identity

// Credential kinds understood by the telemetry sources.
const (
	KindSNMP = "snmp"
	KindMQTT = "mqtt"
)

// Identity is a named credential profile referenced by dashboard source
// declarations.
type Identity struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "snmp" or "mqtt"

	// MQTT (also the SNMPv3 security name).
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// SNMP.
	Version   string `json:"version,omitempty"`    // "1", "2c", "3"
	Community string `json:"community,omitempty"`  // v1/v2c
	AuthProto string `json:"auth_proto,omitempty"` // "MD5", "SHA", "SHA256", "SHA512"
	AuthPass  string `json:"auth_pass,omitempty"`
	PrivProto string `json:"priv_proto,omitempty"` // "DES", "AES128", "AES192", "AES256"
	PrivPass  string `json:"priv_pass,omitempty"`
}

// Summary is an Identity with every secret field removed.
type Summary struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Username  string `json:"username,omitempty"`
	Version   string `json:"version,omitempty"`
	AuthProto string `json:"auth_proto,omitempty"`
	PrivProto string `json:"priv_proto,omitempty"`
}

// Summarize returns a Summary without sensitive fields.
func (id *Identity) Summarize() Summary {
	return Summary{
		Name:      id.Name,
		Kind:      id.Kind,
		Username:  id.Username,
		Version:   id.Version,
		AuthProto: id.AuthProto,
		PrivProto: id.PrivProto,
	}
}

// Provider is the interface for credential storage backends.
type Provider interface {
	List() ([]Summary, error)
	Get(name string) (*Identity, error)
	Add(id Identity) error
	Remove(name string) error
}
