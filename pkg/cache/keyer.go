package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer generates cache keys for pipeline results.
type Keyer interface {
	// LayoutKey identifies a layout of the graph with the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendering of the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists every option that changes a layout.
type LayoutKeyOpts struct {
	Direction string  `json:"direction"`
	NodeSep   float64 `json:"node_sep"`
	RankSep   float64 `json:"rank_sep"`
	Margin    float64 `json:"margin"`
	Align     string  `json:"align"`
	RankAlign string  `json:"rank_align"`
	Orderer   string  `json:"orderer"`
	Passes    int     `json:"passes"`
	Heuristic string  `json:"heuristic"`
	Transpose bool    `json:"transpose"`
}

// ArtifactKeyOpts lists every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Detailed   bool   `json:"detailed"`
	LabelsHash string `json:"labels_hash"`
}

// DefaultKeyer hashes options into fixed-length keys:
//
//	layout:<sha256(graphHash, opts)>
//	artifact:<sha256(layoutHash, opts)>
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// hashKey hashes the JSON encoding of parts into "prefix:<hex>".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex-encoded SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
