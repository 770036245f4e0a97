package pipeline

import (
	"testing"

	terrors "github.com/iloginov/tasker/pkg/errors"
	"github.com/iloginov/tasker/pkg/layout"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !terrors.Is(err, terrors.ErrCodeInvalidInput) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_INPUT", tt.format, terrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "svg"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"json", "pdf"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should be valid: %v", err)
	}

	if opts.Direction != DefaultDirection {
		t.Errorf("Direction = %q, want %q", opts.Direction, DefaultDirection)
	}
	if opts.NodeSep != 100 || opts.RankSep != 100 {
		t.Errorf("spacing = %v/%v, want 100/100", opts.NodeSep, opts.RankSep)
	}
	if opts.Passes != DefaultPasses {
		t.Errorf("Passes = %d, want %d", opts.Passes, DefaultPasses)
	}
	if opts.Orderer != OrdererBarycentric {
		t.Errorf("Orderer = %q", opts.Orderer)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	s := opts.Sizer()
	if s.Width != 200 || s.BaseHeight != 100 || s.LineHeight != 20 || s.MaxHeight != 0 {
		t.Errorf("Sizer = %+v", s)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"direction", Options{Direction: "diagonal"}},
		{"align", Options{Align: "justify"}},
		{"rank align", Options{RankAlign: "middle"}},
		{"heuristic", Options{Heuristic: "random"}},
		{"orderer", Options{Orderer: "optimal"}},
		{"negative passes", Options{Passes: -1}},
		{"too many passes", Options{Passes: MaxPasses + 1}},
		{"negative node sep", Options{NodeSep: -5}},
		{"negative margin", Options{Margin: -1}},
		{"negative line height", Options{LineHeight: -1}},
		{"format", Options{Formats: []string{"pdf"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !terrors.Is(err, terrors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Direction: "LR"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.LayoutKeyOpts()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.LayoutKeyOpts() != first {
		t.Error("second call changed options")
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	bary := Options{}
	_ = bary.ValidateAndSetDefaults()
	k := bary.LayoutKeyOpts()
	if k.Passes != DefaultPasses || k.Heuristic != "median" || !k.Transpose {
		t.Errorf("barycentric key opts = %+v", k)
	}

	stable := Options{Orderer: OrdererStable, Passes: 40}
	_ = stable.ValidateAndSetDefaults()
	k = stable.LayoutKeyOpts()
	if k.Passes != 0 || k.Heuristic != "" || k.Transpose {
		t.Errorf("stable orderer ignores sweep settings, key opts = %+v", k)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	var opts Options
	_ = opts.ValidateAndSetDefaults()

	plain := opts.ArtifactKeyOpts(FormatSVG, nil)
	if plain.LabelsHash != "" {
		t.Errorf("no labels should give an empty hash, got %q", plain.LabelsHash)
	}
	a := opts.ArtifactKeyOpts(FormatSVG, map[string]string{"x": "Build", "y": "Ship"})
	b := opts.ArtifactKeyOpts(FormatSVG, map[string]string{"y": "Ship", "x": "Build"})
	c := opts.ArtifactKeyOpts(FormatSVG, map[string]string{"x": "Build", "y": "Deploy"})
	if a != b {
		t.Error("equal label maps should give equal keys")
	}
	if a == c {
		t.Error("different labels should give different keys")
	}
}

func TestLayoutOptions(t *testing.T) {
	opts := Options{Direction: "RL", Orderer: OrdererStable}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	res, err := layout.Build(nil, nil, opts.LayoutOptions()...)
	if err != nil {
		t.Fatalf("layout options rejected: %v", err)
	}
	if res.Direction != layout.RightToLeft {
		t.Errorf("Direction = %v, want RL", res.Direction)
	}
}
