package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/iloginov/tasker/pkg/config"
	terrors "github.com/iloginov/tasker/pkg/errors"
	"github.com/iloginov/tasker/pkg/graph"
	"github.com/iloginov/tasker/pkg/pipeline"
)

const chainGraph = `{
  "tasks": [
    {"id": "a", "title": "Design"},
    {"id": "b", "title": "Build", "description": "api\nworker"},
    {"id": "c", "title": "Ship"}
  ],
  "dependencies": [
    {"source_task_id": "a", "dependent_task_id": "b"},
    {"source_task_id": "b", "dependent_task_id": "c"}
  ]
}`

func testCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.Config.Cache.Dir = t.TempDir()
	return c
}

func writeGraph(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roadmap.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseEdge(t *testing.T) {
	tests := []struct {
		in       string
		from, to string
		wantErr  bool
	}{
		{in: "a:b", from: "a", to: "b"},
		{in: " a : b ", from: "a", to: "b"},
		{in: "ns:a:b", from: "ns", to: "a:b"},
		{in: "a", wantErr: true},
		{in: ":b", wantErr: true},
		{in: "a:", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			from, to, err := parseEdge(tt.in)
			if tt.wantErr {
				if !terrors.Is(err, terrors.ErrCodeInvalidInput) {
					t.Fatalf("parseEdge(%q) err = %v, want INVALID_INPUT", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseEdge(%q): %v", tt.in, err)
			}
			if from != tt.from || to != tt.to {
				t.Errorf("parseEdge(%q) = %q, %q, want %q, %q", tt.in, from, to, tt.from, tt.to)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"json"}},
		{"svg", []string{"svg"}},
		{"json, dot,svg", []string{"json", "dot", "svg"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "roadmap.yaml", "roadmap"},
		{"", "dir/roadmap.json", "dir/roadmap"},
		{"", "-", "graph"},
		{"out/plan.svg", "roadmap.yaml", "out/plan"},
		{"out/plan", "roadmap.yaml", "out/plan"},
		{"out/plan.v2", "roadmap.yaml", "out/plan.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		output   string
		format   string
		count    int
		wantPath string
	}{
		{"default", "roadmap", "", "json", 1, "roadmap.layout.json"},
		{"explicit file", "out/plan", "out/plan.svg", "svg", 1, "out/plan.svg"},
		{"explicit base", "out/plan", "out/plan", "dot", 1, "out/plan.dot"},
		{"several formats", "out/plan", "out/plan.svg", "json", 2, "out/plan.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.base, tt.output, tt.format, tt.count); got != tt.wantPath {
				t.Errorf("outputPath() = %q, want %q", got, tt.wantPath)
			}
		})
	}
}

func TestLayoutOptionsOverlay(t *testing.T) {
	cfg, err := config.Parse([]byte("[layout]\ndirection = \"BT\"\npasses = 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	c := testCLI(t)
	c.Config = cfg

	var flags pipeline.Options
	fs := pflag.NewFlagSet("layout", pflag.ContinueOnError)
	addLayoutFlags(fs, &flags)
	if err := fs.Parse([]string{"--passes", "8", "--heuristic", "mean"}); err != nil {
		t.Fatal(err)
	}

	opts := c.layoutOptions(fs, flags)
	if opts.Direction != "BT" {
		t.Errorf("Direction = %q, want config value BT", opts.Direction)
	}
	if opts.Passes != 8 {
		t.Errorf("Passes = %d, want flag value 8", opts.Passes)
	}
	if opts.Heuristic != "mean" {
		t.Errorf("Heuristic = %q, want mean", opts.Heuristic)
	}
	if opts.Logger != c.Logger {
		t.Error("Logger not set from CLI")
	}
}

func TestRunLayout(t *testing.T) {
	c := testCLI(t)
	input := writeGraph(t, chainGraph)
	base := filepath.Join(t.TempDir(), "plan")

	opts := c.Config.PipelineOptions()
	opts.Formats = []string{"json", "dot"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	err := c.runLayout(context.Background(), nil, &stdout, &stderr, input, opts, layoutFlags{output: base})
	if err != nil {
		t.Fatalf("runLayout: %v", err)
	}

	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := graph.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("layout file: %v", err)
	}
	if len(doc.Ranks) != 3 {
		t.Errorf("ranks = %v, want 3", doc.Ranks)
	}
	if b, ok := doc.Block("b"); !ok || b.Label != "Build" {
		t.Errorf("block b = %+v, %v", b, ok)
	}

	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph G {") {
		t.Errorf("dot output = %q", dot[:min(len(dot), 40)])
	}

	for _, want := range []string{base + ".json", base + ".dot", "3 tasks", "2 dependencies", "3 ranks"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("status output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestRunLayoutToStdout(t *testing.T) {
	c := testCLI(t)
	opts := c.Config.PipelineOptions()
	opts.Formats = []string{"json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	stdin := strings.NewReader(chainGraph)
	err := c.runLayout(context.Background(), stdin, &stdout, &stderr, "-", opts, layoutFlags{output: "-", noCache: true})
	if err != nil {
		t.Fatalf("runLayout: %v", err)
	}
	if _, err := graph.UnmarshalLayout(stdout.Bytes()); err != nil {
		t.Errorf("stdout is not a layout: %v\n%s", err, stdout.String())
	}
}

func TestRunLayoutStdoutNeedsOneFormat(t *testing.T) {
	c := testCLI(t)
	opts := pipeline.Options{Formats: []string{"json", "svg"}}
	err := c.runLayout(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{}, "-", opts, layoutFlags{output: "-"})
	if err == nil {
		t.Fatal("expected error for two formats on stdout")
	}
}

func TestRunCheck(t *testing.T) {
	input := writeGraph(t, chainGraph)

	tests := []struct {
		name     string
		edges    []string
		wantCode terrors.Code
		wantOut  []string
	}{
		{
			name:    "valid graph",
			wantOut: []string{"is a valid dependency graph", "3 ranks"},
		},
		{
			name:    "acyclic edge",
			edges:   []string{"a:c"},
			wantOut: []string{"a → c can be added"},
		},
		{
			name:     "cycle",
			edges:    []string{"a:c", "c:a"},
			wantCode: terrors.ErrCodeCycleDetected,
			wantOut:  []string{"c → a would create a cycle", "c → a → b → c"},
		},
		{
			name:     "unknown task",
			edges:    []string{"a:zzz"},
			wantCode: terrors.ErrCodeInvalidGraph,
			wantOut:  []string{"a → zzz is invalid"},
		},
		{
			name:     "malformed edge",
			edges:    []string{"a"},
			wantCode: terrors.ErrCodeInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := testCLI(t).runCheck(context.Background(), nil, &out, input, tt.edges)
			if tt.wantCode == "" && err != nil {
				t.Fatalf("runCheck: %v", err)
			}
			if tt.wantCode != "" && !terrors.Is(err, tt.wantCode) {
				t.Fatalf("runCheck err = %v, want %s", err, tt.wantCode)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestRunCheckCyclicGraph(t *testing.T) {
	input := writeGraph(t, `{"edges": [{"from": "x", "to": "y"}, {"from": "y", "to": "x"}],
		"nodes": [{"id": "x"}, {"id": "y"}]}`)

	var out bytes.Buffer
	err := testCLI(t).runCheck(context.Background(), nil, &out, input, nil)
	if !terrors.Is(err, terrors.ErrCodeCycleDetected) {
		t.Fatalf("err = %v, want CYCLE_DETECTED", err)
	}
	if !strings.Contains(out.String(), "is not a valid dependency graph") {
		t.Errorf("output = %q", out.String())
	}
}

func TestErrorMessage(t *testing.T) {
	coded := terrors.New(terrors.ErrCodeCycleDetected, "dependency cycle: a -> b -> a")
	if got := ErrorMessage(fmt.Errorf("layout: %w", coded)); got != "Error: dependency cycle: a -> b -> a" {
		t.Errorf("ErrorMessage(coded) = %q", got)
	}
	if got := ErrorMessage(errors.New("boom")); got != "Error: boom" {
		t.Errorf("ErrorMessage(plain) = %q", got)
	}
}

func TestRootCommandVersion(t *testing.T) {
	c := testCLI(t)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), appName) {
		t.Errorf("version output = %q", out.String())
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "tasker.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := testCLI(t)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "--env-file", filepath.Join(dir, "none.env"), "cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestCacheClearCommand(t *testing.T) {
	c := testCLI(t)
	dir := c.Config.Cache.Dir
	input := writeGraph(t, chainGraph)

	opts := c.Config.PipelineOptions()
	opts.Formats = []string{"json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "plan")
	if err := c.runLayout(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{}, input, opts, layoutFlags{output: out}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	cmd := c.cacheClearCommand()
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Cleared 2 cached entries") {
		t.Errorf("output = %q", buf.String())
	}
	if !strings.Contains(buf.String(), dir) {
		t.Errorf("output %q does not name %s", buf.String(), dir)
	}
}
