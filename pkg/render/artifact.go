package render

import (
	"encoding/json"
	"fmt"
)

// Artifact is a finished render: the encoded image bytes plus the metadata
// the service layer needs to serve them. Artifacts are immutable once
// produced and shared read-only by every caller holding the same
// fingerprint.
type Artifact struct {
	// Data is the encoded image.
	Data []byte `json:"data" bson:"data"`

	// Format is the artifact encoding: "svg" or "png".
	Format string `json:"format" bson:"format"`

	// ContentType is the MIME type matching Format.
	ContentType string `json:"content_type" bson:"content_type"`

	// Width and Height are pixel dimensions for raster output and point
	// dimensions for vector output.
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Fingerprint is the content digest of the inputs that produced this
	// artifact.
	Fingerprint string `json:"fingerprint" bson:"fingerprint"`
}

// Size returns the encoded byte count. Cache accounting runs on it.
func (a *Artifact) Size() int64 { return int64(len(a.Data)) }

// MarshalBinary encodes the artifact envelope for byte-addressed stores.
func (a *Artifact) MarshalBinary() ([]byte, error) {
	return json.Marshal(a)
}

// UnmarshalBinary decodes a stored artifact envelope. Envelopes without
// image bytes or a format are rejected so stale or truncated store entries
// surface as misses rather than empty artifacts.
func (a *Artifact) UnmarshalBinary(data []byte) error {
	if err := json.Unmarshal(data, a); err != nil {
		return fmt.Errorf("decode artifact envelope: %w", err)
	}
	if a.Format == "" || len(a.Data) == 0 {
		return fmt.Errorf("artifact envelope missing format or data")
	}
	return nil
}
