package main

import (
	"strings"
	"testing"
)

func TestRenderTableUppercasesHeaders(t *testing.T) {
	out := renderTable([]column{{title: "Status"}, {title: "Layers", right: true}}, [][]string{
		{"succeeded", "3"},
		{"failed"},
	})
	requireContains(t, out, "STATUS")
	requireContains(t, out, "LAYERS")
	if strings.Contains(out, "Status") {
		t.Fatalf("header kept its original case:\n%s", out)
	}
	requireContains(t, out, "succeeded")
	if got := strings.Count(out, "\n") + 1; got != 6 {
		t.Fatalf("expected 6 lines (borders, header, two rows), got %d:\n%s", got, out)
	}
}

func TestRenderTableWithoutColumns(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
