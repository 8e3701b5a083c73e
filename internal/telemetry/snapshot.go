package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MaxKeyLen is the longest dotted key Resolve will accept.
// Longer keys are treated as unresolvable rather than an error.
const MaxKeyLen = 64

// Snapshot is a point-in-time telemetry tree. Keys are strings, leaves are
// strings, numbers, or booleans; nested maps form the branches. Snapshots
// are built either from a JSON payload (FromJSON) or programmatically via
// Set, and are read by Resolve.
type Snapshot map[string]any

// FromJSON decodes a JSON object payload into a Snapshot. Numbers are kept
// as json.Number so integer readings survive the round trip exactly.
func FromJSON(payload []byte) (Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode telemetry payload: %w", err)
	}
	return snap, nil
}

// Set stores value at the given dotted key, creating intermediate maps as
// needed. A non-map node along the path is replaced by a map.
func (s Snapshot) Set(dottedKey string, value any) {
	segments := splitKey(dottedKey)
	if len(segments) == 0 {
		return
	}

	node := s
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(Snapshot)
		if !ok {
			if m, isMap := node[seg].(map[string]any); isMap {
				child = Snapshot(m)
			} else {
				child = Snapshot{}
			}
			node[seg] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
}

// MergeAt grafts other into the snapshot under the given dotted prefix.
// An empty prefix merges at the root. Existing branches are merged
// recursively; conflicting leaves are overwritten by other.
func (s Snapshot) MergeAt(prefix string, other Snapshot) {
	target := s
	for _, seg := range splitKey(prefix) {
		child, ok := asMap(target[seg])
		if !ok {
			child = Snapshot{}
			target[seg] = child
		}
		target = child
	}
	mergeInto(target, other)
}

func mergeInto(dst, src Snapshot) {
	for k, v := range src {
		if sv, ok := asMap(v); ok {
			if dv, ok := asMap(dst[k]); ok {
				mergeInto(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
}

func asMap(v any) (Snapshot, bool) {
	switch m := v.(type) {
	case Snapshot:
		return m, true
	case map[string]any:
		return Snapshot(m), true
	default:
		return nil, false
	}
}

// splitKey splits a dotted key into segments, skipping empty ones so that
// stray or doubled dots don't produce phantom path elements.
func splitKey(key string) []string {
	if key == "" {
		return nil
	}
	parts := strings.Split(key, ".")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
