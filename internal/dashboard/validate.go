package dashboard

import (
	"fmt"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/telemetry"
)

// Validate checks a loaded dashboard for problems the builder cannot signal:
// over-long telemetry keys (they would never resolve), untitled groups, and
// duplicate dataset indexes, which make Serial Studio plots overwrite each
// other.
func (d *Dashboard) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("dashboard has no title")
	}

	seen := make(map[int]string)
	for gi, grp := range d.Groups {
		if grp.Title == "" {
			return fmt.Errorf("group %d has no title", gi)
		}
		for _, ds := range grp.Datasets {
			if ds.Title == "" {
				return fmt.Errorf("group %q: dataset has no title", grp.Title)
			}
			if len(ds.TelemetryKey) >= telemetry.MaxKeyLen {
				return fmt.Errorf("group %q dataset %q: telemetry key exceeds %d characters",
					grp.Title, ds.Title, telemetry.MaxKeyLen-1)
			}
			if ds.Index != 0 {
				if prev, dup := seen[ds.Index]; dup {
					return fmt.Errorf("dataset index %d used by both %q and %q",
						ds.Index, prev, ds.Title)
				}
				seen[ds.Index] = ds.Title
			}
		}
	}

	for _, src := range d.Sources.MQTT {
		if src.Broker == "" {
			return fmt.Errorf("mqtt source has no broker")
		}
		if len(src.Topics) == 0 {
			return fmt.Errorf("mqtt source %s declares no topics", src.Broker)
		}
	}
	for _, src := range d.Sources.SNMP {
		if src.Host == "" {
			return fmt.Errorf("snmp source has no host")
		}
		if len(src.OIDs) == 0 {
			return fmt.Errorf("snmp source %s declares no oids", src.Host)
		}
	}
	return nil
}

// SlotCandidates counts datasets that declare a telemetry key, in document
// order. Together with serialstudio.MaxSlots this tells a user up front
// whether registrations will be dropped.
func (d *Dashboard) SlotCandidates() int {
	n := 0
	for _, grp := range d.Groups {
		for _, ds := range grp.Datasets {
			if ds.TelemetryKey != "" {
				n++
			}
		}
	}
	return n
}
