package serialstudio

import (
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/telemetry"
)

// Update overwrites the value leaf of every slotted dataset with the
// current reading from snap. Keys that do not resolve leave the previous
// value in place, so the dashboard keeps showing the last known reading
// when a sensor goes quiet. Update never changes the document's shape.
func (p *Project) Update(snap telemetry.Snapshot) {
	for _, slot := range p.slots {
		val, ok := snap.Resolve(slot.Key)
		if !ok {
			continue
		}
		p.doc.Groups[slot.Group].Datasets[slot.Dataset].Value = val
	}
}
