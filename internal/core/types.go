package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errNotObject = errors.New("payload is not a JSON object")

// UsageSnapshot is the aggregate usage reported by the admin-info endpoint.
// A nil field means the server did not report it, which is distinct from zero.
type UsageSnapshot struct {
	Buckets *int64 `json:"buckets,omitempty"`
	Usage   *int64 `json:"usage,omitempty"` // bytes
	Objects *int64 `json:"objects,omitempty"`
}

// ParseUsageSnapshot decodes an admin-info payload. The body must be a JSON
// object; fields missing from it (or sent as null) stay nil. Negative counts
// are rejected.
func ParseUsageSnapshot(data []byte) (UsageSnapshot, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return UsageSnapshot{}, errNotObject
	}

	var snap UsageSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return UsageSnapshot{}, err
	}
	for _, f := range []struct {
		name string
		v    *int64
	}{
		{"buckets", snap.Buckets},
		{"usage", snap.Usage},
		{"objects", snap.Objects},
	} {
		if f.v != nil && *f.v < 0 {
			return UsageSnapshot{}, fmt.Errorf("negative %s: %d", f.name, *f.v)
		}
	}
	return snap, nil
}

// Clone returns a copy that shares no pointers with s.
func (s UsageSnapshot) Clone() UsageSnapshot {
	return UsageSnapshot{
		Buckets: cloneInt64(s.Buckets),
		Usage:   cloneInt64(s.Usage),
		Objects: cloneInt64(s.Objects),
	}
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }
