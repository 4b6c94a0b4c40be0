package persistence

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// ManifestVersion is the version of the manifest format.
	ManifestVersion = 1

	// BlobSuffix is appended to a sketch name to form its blob name.
	BlobSuffix = ".wnx"
	// ManifestSuffix is appended to a sketch name to form its manifest name.
	ManifestSuffix = ".manifest"
	// CurrentFileName holds the name of the most recently published manifest.
	CurrentFileName = "CURRENT"
)

// Manifest describes a stored sketch blob.
type Manifest struct {
	Version      int       `json:"version"`
	Name         string    `json:"name"`
	Blob         string    `json:"blob"`
	KmerSize     int       `json:"kmer_size"`
	WindowSize   int       `json:"window_size"`
	AlphabetSize int       `json:"alphabet_size"`
	Sequences    int       `json:"sequences"`
	Records      int       `json:"records"`
	Bases        int64     `json:"bases"`
	Size         int64     `json:"size"`
	Checksum     uint32    `json:"checksum"`
	Compression  string    `json:"compression"`
	Codec        string    `json:"codec"`
	CreatedAt    time.Time `json:"created_at"`
}

// BlobName returns the blob name for a sketch name.
func BlobName(name string) string { return name + BlobSuffix }

// ManifestName returns the manifest name for a sketch name.
func ManifestName(name string) string { return name + ManifestSuffix }

// ManifestCodec encodes manifests. The name is recorded in the manifest
// itself. Implementations must be safe for concurrent use.
type ManifestCodec interface {
	Name() string
	Marshal(m *Manifest) ([]byte, error)
	Unmarshal(data []byte, m *Manifest) error
}

// JSONManifest writes compact JSON, or human-readable JSON when Indent is set.
// Both forms decode with either value.
type JSONManifest struct {
	Indent bool
}

// Name returns "json" or "json-indent".
func (c JSONManifest) Name() string {
	if c.Indent {
		return "json-indent"
	}
	return "json"
}

func (c JSONManifest) Marshal(m *Manifest) ([]byte, error) {
	if c.Indent {
		return json.MarshalIndent(m, "", "  ")
	}
	return json.Marshal(m)
}

func (JSONManifest) Unmarshal(data []byte, m *Manifest) error { return json.Unmarshal(data, m) }

// DefaultManifestCodec is used when no codec is configured.
var DefaultManifestCodec ManifestCodec = JSONManifest{}

// ManifestCodecByName resolves a codec from the name stored in a manifest
// or given on the command line.
func ManifestCodecByName(name string) (ManifestCodec, error) {
	switch name {
	case "", "json":
		return JSONManifest{}, nil
	case "json-indent":
		return JSONManifest{Indent: true}, nil
	default:
		return nil, fmt.Errorf("persistence: unknown manifest codec %q (want json or json-indent)", name)
	}
}

// MarshalManifest encodes m with c (DefaultManifestCodec when nil).
func MarshalManifest(c ManifestCodec, m *Manifest) ([]byte, error) {
	if c == nil {
		c = DefaultManifestCodec
	}
	return c.Marshal(m)
}

// UnmarshalManifest decodes a manifest and checks its version.
func UnmarshalManifest(c ManifestCodec, data []byte) (*Manifest, error) {
	if c == nil {
		c = DefaultManifestCodec
	}
	var m Manifest
	if err := c.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest: %w", ErrCorrupt, err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("%w: manifest version %d", ErrUnsupportedVersion, m.Version)
	}
	return &m, nil
}
