package repl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_MemoryOnly(t *testing.T) {
	h := NewHistory("")

	if err := h.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	for _, line := range []string{"[1...3]", "  ", "[a, b]"} {
		if err := h.Add(line, modeTemplate); err != nil {
			t.Fatalf("Add(%q) error: %v", line, err)
		}
	}

	want := []HistoryEntry{
		{Line: "[1...3]", Mode: modeTemplate},
		{Line: "[a, b]", Mode: modeTemplate},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_Dedup(t *testing.T) {
	h := NewHistory("")

	for _, e := range []HistoryEntry{
		{Line: "a", Mode: modeTemplate},
		{Line: "help", Mode: modeCtrl},
		{Line: "b", Mode: modeTemplate},
		{Line: "b", Mode: modeTemplate},
		{Line: "a", Mode: modeTemplate},
		{Line: "help", Mode: modeTemplate},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	want := []HistoryEntry{
		{Line: "help", Mode: modeCtrl},
		{Line: "b", Mode: modeTemplate},
		{Line: "a", Mode: modeTemplate},
		{Line: "help", Mode: modeTemplate},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() of missing file: %v", err)
	}

	_ = h.Add("[Room, 1...3]", modeTemplate)
	_ = h.Add("find Room2", modeCtrl)
	_ = h.Add("[x, y]", modeTemplate)
	_ = h.Add("[Room, 1...3]", modeTemplate)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	wantFile := "C:find Room2\nT:[x, y]\nT:[Room, 1...3]\n"
	if string(data) != wantFile {
		t.Errorf("history file = %q, want %q", data, wantFile)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(h.Entries(), reloaded.Entries()); diff != "" {
		t.Errorf("reloaded entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_LoadPrefixes(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)

	content := "T:[1...2]\nC:quit\n\nbare template\n  C:clear  \n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{
		{Line: "[1...2]", Mode: modeTemplate},
		{Line: "quit", Mode: modeCtrl},
		{Line: "bare template", Mode: modeTemplate},
		{Line: "clear", Mode: modeCtrl},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_Limit(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)

	var b strings.Builder
	for k := range maxHistory + 5 {
		fmt.Fprintf(&b, "T:[%d...%d]\n", k, k+1)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	first, err := h.Entry(0)
	if err != nil {
		t.Fatal(err)
	}

	if first.Line != "[5...6]" {
		t.Errorf("oldest entry = %q, want %q", first.Line, "[5...6]")
	}

	if err := h.Add("newest", modeTemplate); err != nil {
		t.Fatal(err)
	}

	if h.Len() != maxHistory {
		t.Errorf("Len() after Add = %d, want %d", h.Len(), maxHistory)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if reloaded.Len() != maxHistory {
		t.Errorf("reloaded Len() = %d, want %d", reloaded.Len(), maxHistory)
	}

	last, _ := reloaded.Entry(maxHistory - 1)
	if last.Line != "newest" {
		t.Errorf("newest entry = %q, want %q", last.Line, "newest")
	}
}

func TestHistory_EntryOutOfBounds(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("only", modeTemplate)

	for _, i := range []int{-1, 1, 5} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}
