// Package pipeline provides the layout pipeline shared by the CLI and the
// HTTP API.
//
// By centralizing option handling, caching, and error mapping here, both
// entry points lay out and render a snapshot the same way.
//
// # Stages
//
//  1. Input: a [graph.Document] is sized into engine nodes and edges
//  2. Layout: the engine ranks, orders and places them (cached by content hash)
//  3. Render: the layout is exported as JSON, DOT or SVG (cached per format)
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{Direction: "LR", Formats: []string{"json"}}
//	result, err := runner.Execute(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data := result.Artifacts["json"]
//
// Before a dependency is stored, [Runner.CheckDependency] reports whether it
// would close a cycle.
//
// Errors carry pkg/errors codes: INVALID_INPUT for bad options and the codes
// of [errors.FromLayout] for engine failures.
package pipeline

import (
	"encoding/json"
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iloginov/tasker/pkg/cache"
	"github.com/iloginov/tasker/pkg/dag/transform"
	terrors "github.com/iloginov/tasker/pkg/errors"
	"github.com/iloginov/tasker/pkg/layout"
	"github.com/iloginov/tasker/pkg/layout/ordering"
	"github.com/iloginov/tasker/pkg/layout/placement"
	"github.com/iloginov/tasker/pkg/tasks"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	DefaultDirection = "TB"
	DefaultAlign     = "center"
	DefaultRankAlign = "top"
	DefaultHeuristic = "median"

	// DefaultNodeSep and DefaultRankSep match the task board's card spacing.
	DefaultNodeSep = layout.DefaultNodeSep
	DefaultRankSep = layout.DefaultRankSep

	// DefaultPasses is the number of ordering sweeps.
	DefaultPasses = ordering.DefaultPasses

	// MaxPasses bounds the sweep count accepted from clients.
	MaxPasses = 100
)

// Orderer names.
const (
	OrdererBarycentric = "barycentric"
	OrdererStable      = "stable"
)

// DefaultOrderer is the default crossing-reduction algorithm.
const DefaultOrderer = OrdererBarycentric

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidOrderers is the set of supported orderers.
var ValidOrderers = map[string]bool{
	OrdererBarycentric: true,
	OrdererStable:      true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests; zero values mean
// "use the default". A spacing or sizing field whose default is non-zero
// therefore cannot be set to exactly 0; callers pass a small positive value.
type Options struct {
	// Layout options
	Direction   string  `json:"direction,omitempty"`
	NodeSep     float64 `json:"node_sep,omitempty"`
	RankSep     float64 `json:"rank_sep,omitempty"`
	Margin      float64 `json:"margin,omitempty"`
	Align       string  `json:"align,omitempty"`
	RankAlign   string  `json:"rank_align,omitempty"`
	Orderer     string  `json:"orderer,omitempty"`
	Passes      int     `json:"passes,omitempty"`
	Heuristic   string  `json:"heuristic,omitempty"`
	NoTranspose bool    `json:"no_transpose,omitempty"`

	// Sizing options for nodes without an explicit size
	NodeWidth  float64 `json:"node_width,omitempty"`
	BaseHeight float64 `json:"base_height,omitempty"`
	LineHeight float64 `json:"line_height,omitempty"`
	MaxHeight  float64 `json:"max_height,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Rank and order in DOT/SVG labels

	// Refresh bypasses cached results; fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed layout.
	Layout *layout.Result

	// GraphHash is the content hash of the engine input.
	GraphHash string

	// Labels maps node IDs to display labels.
	Labels map[string]string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	RankCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return terrors.New(terrors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOrderer checks that an orderer name is valid.
func ValidateOrderer(name string) error {
	if !ValidOrderers[name] {
		return terrors.New(terrors.ErrCodeInvalidInput, "invalid orderer: %q (must be one of: barycentric, stable)", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every option and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if _, err := placement.ParseDirection(o.Direction); err != nil {
		return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "%v", err)
	}
	if _, err := placement.ParseAlign(o.Align); err != nil {
		return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "%v", err)
	}
	if _, err := transform.ParseAlign(o.RankAlign); err != nil {
		return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "%v", err)
	}
	if _, err := ordering.ParseHeuristic(o.Heuristic); err != nil {
		return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "%v", err)
	}
	if err := ValidateOrderer(o.Orderer); err != nil {
		return err
	}
	if o.Passes < 0 || o.Passes > MaxPasses {
		return terrors.New(terrors.ErrCodeInvalidInput, "passes must be between 0 and %d, got %d", MaxPasses, o.Passes)
	}
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"node_sep", o.NodeSep},
		{"rank_sep", o.RankSep},
		{"margin", o.Margin},
		{"node_width", o.NodeWidth},
		{"base_height", o.BaseHeight},
		{"line_height", o.LineHeight},
		{"max_height", o.MaxHeight},
	} {
		if v.value < 0 || math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return terrors.New(terrors.ErrCodeInvalidInput, "%s must be a non-negative number, got %v", v.name, v.value)
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// SetDefaults fills zero-valued fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if o.NodeSep == 0 {
		o.NodeSep = DefaultNodeSep
	}
	if o.RankSep == 0 {
		o.RankSep = DefaultRankSep
	}
	if o.Align == "" {
		o.Align = DefaultAlign
	}
	if o.RankAlign == "" {
		o.RankAlign = DefaultRankAlign
	}
	if o.Orderer == "" {
		o.Orderer = DefaultOrderer
	}
	if o.Passes == 0 {
		o.Passes = DefaultPasses
	}
	if o.Heuristic == "" {
		o.Heuristic = DefaultHeuristic
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = tasks.DefaultWidth
	}
	if o.BaseHeight == 0 {
		o.BaseHeight = tasks.DefaultBaseHeight
	}
	if o.LineHeight == 0 {
		o.LineHeight = tasks.DefaultLineHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Sizer returns the card sizer for nodes without an explicit size.
func (o *Options) Sizer() tasks.Sizer {
	return tasks.Sizer{
		Width:      o.NodeWidth,
		BaseHeight: o.BaseHeight,
		LineHeight: o.LineHeight,
		MaxHeight:  o.MaxHeight,
	}
}

// LayoutOptions converts the options to engine options. Call
// ValidateAndSetDefaults first; unparseable values fall back to defaults here.
func (o *Options) LayoutOptions() []layout.Option {
	dir, _ := placement.ParseDirection(o.Direction)
	align, _ := placement.ParseAlign(o.Align)
	rankAlign, _ := transform.ParseAlign(o.RankAlign)

	var orderer ordering.Orderer
	if o.Orderer == OrdererStable {
		orderer = ordering.Stable{}
	} else {
		h, _ := ordering.ParseHeuristic(o.Heuristic)
		orderer = ordering.Barycentric{Passes: o.Passes, Heuristic: h, Transpose: !o.NoTranspose}
	}

	return []layout.Option{
		layout.WithDirection(dir),
		layout.WithSpacing(o.NodeSep, o.RankSep),
		layout.WithMargin(o.Margin),
		layout.WithAlign(align),
		layout.WithRankAlign(rankAlign),
		layout.WithOrderer(orderer),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Direction: o.Direction,
		NodeSep:   o.NodeSep,
		RankSep:   o.RankSep,
		Margin:    o.Margin,
		Align:     o.Align,
		RankAlign: o.RankAlign,
		Orderer:   o.Orderer,
	}
	if o.Orderer != OrdererStable {
		k.Passes = o.Passes
		k.Heuristic = o.Heuristic
		k.Transpose = !o.NoTranspose
	}
	return k
}

// ArtifactKeyOpts returns cache key options for rendering format with the
// given labels.
func (o *Options) ArtifactKeyOpts(format string, labels map[string]string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
	if len(labels) > 0 {
		// encoding/json sorts map keys, so equal maps encode equally.
		data, _ := json.Marshal(labels)
		k.LabelsHash = cache.Hash(data)
	}
	return k
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}
