package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"text", FormatText},
		{"", FormatText},
		{"bogus", FormatText},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable("Risk Factors",
		[]string{"Factor", "Score"},
		[][]string{
			{"Files Changed", "30.0"},
			{"Lines Changed", "12.5"},
		},
		[]string{"Total", "42.5"},
		nil,
	)

	var buf bytes.Buffer
	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"## Risk Factors", "| Factor | Score |", "| --- | --- |", "| Files Changed | 30.0 |", "| Total | 42.5 |"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderDataFallsBackToRows(t *testing.T) {
	table := NewTable("", []string{"A", "B"}, [][]string{{"1", "2"}}, nil, nil)

	data, ok := table.RenderData().([]map[string]string)
	if !ok {
		t.Fatalf("RenderData() = %T, want []map[string]string", table.RenderData())
	}
	if data[0]["A"] != "1" || data[0]["B"] != "2" {
		t.Errorf("RenderData() = %v", data)
	}
}

func TestTableRenderText(t *testing.T) {
	table := NewTable("Assessment", []string{"Factor", "Score"}, [][]string{{"Files Changed", "30"}}, nil, nil)

	var buf bytes.Buffer
	if err := table.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Assessment") {
		t.Errorf("text output missing title:\n%s", out)
	}
	if !strings.Contains(out, "Files Changed") {
		t.Errorf("text output missing row:\n%s", out)
	}
}

func TestFormatterJSONOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	f, err := NewFormatter(FormatJSON, path, true)
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	payload := map[string]any{"score": 42, "level": "medium"}
	if err := f.Output(payload); err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, raw)
	}
	if decoded["level"] != "medium" {
		t.Errorf("level = %v, want medium", decoded["level"])
	}
}

func TestFormatterRenderableDispatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	f, err := NewFormatter(FormatMarkdown, path, false)
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	section := &Section{Title: "Summary", Content: "low risk"}
	if err := f.Output(section); err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	f.Close()

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "## Summary") {
		t.Errorf("markdown dispatch failed:\n%s", raw)
	}
}

func TestFormatterWarningUncolored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	f, err := NewFormatter(FormatText, path, true) // file output disables color
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	f.Warning("Skipping %s: %v", "/no/repo", "not a repository")
	f.Close()

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "WARNING: Skipping /no/repo: not a repository") {
		t.Errorf("warning output = %q", raw)
	}
}

func TestSectionRenderTextNesting(t *testing.T) {
	section := &Section{
		Title:   "Deployment Risk",
		Content: "score 61 (high)",
		Sections: []Section{
			{Title: "Recommendation", Content: "Deploy during low-traffic hours with rollback plan ready"},
		},
	}

	var buf bytes.Buffer
	if err := section.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Deployment Risk\n===============") {
		t.Errorf("top-level underline missing:\n%s", out)
	}
	if !strings.Contains(out, "Recommendation\n--------------") {
		t.Errorf("nested underline missing:\n%s", out)
	}
}
