package server

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/chazu/tape/compiler"
)

func testDoc(t *testing.T, text string) *document {
	t.Helper()
	return NewLSP(compiler.Options{}).analyze(text)
}

func pos(line, char int) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

// ---------------------------------------------------------------------------
// Position helpers
// ---------------------------------------------------------------------------

func TestRuneOffset(t *testing.T) {
	text := "+é\n[-]"
	tests := []struct {
		pos  protocol.Position
		want int
	}{
		{pos(0, 0), 0},
		{pos(0, 1), 1},
		{pos(0, 2), 2}, // the newline
		{pos(1, 0), 3},
		{pos(1, 2), 5},
		{pos(1, 3), -1},
		{pos(4, 0), -1},
	}
	for _, tt := range tests {
		if got := runeOffset(text, tt.pos); got != tt.want {
			t.Errorf("runeOffset(%v) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestToRange(t *testing.T) {
	r := toRange(compiler.Position{Offset: 7, Line: 3, Column: 5})
	if r.Start != pos(2, 4) || r.End != pos(2, 5) {
		t.Errorf("toRange = %+v", r)
	}
}

// ---------------------------------------------------------------------------
// Diagnostics
// ---------------------------------------------------------------------------

func TestDiagnostics_Clean(t *testing.T) {
	if d := diagnosticsFor(testDoc(t, "+[->+<]")); len(d) != 0 {
		t.Errorf("diagnostics = %+v, want none", d)
	}
}

func TestDiagnostics_Unmatched(t *testing.T) {
	doc := testDoc(t, "+\n  [[-]")
	if doc.prog != nil {
		t.Fatal("program should not compile")
	}
	d := diagnosticsFor(doc)
	if len(d) != 1 {
		t.Fatalf("diagnostics = %+v, want one", d)
	}
	if d[0].Range.Start != pos(1, 2) {
		t.Errorf("range start = %+v, want 1:2", d[0].Range.Start)
	}
	if d[0].Severity == nil || *d[0].Severity != protocol.DiagnosticSeverityError {
		t.Error("severity should be error")
	}
	if !strings.Contains(d[0].Message, "matching bracket") {
		t.Errorf("message = %q", d[0].Message)
	}
}

func TestDiagnostics_Strict(t *testing.T) {
	doc := NewLSP(compiler.Options{Strict: true}).analyze("+ x")
	d := diagnosticsFor(doc)
	if len(d) != 1 || d[0].Range.Start != pos(0, 2) {
		t.Fatalf("diagnostics = %+v, want syntax error at 0:2", d)
	}
}

// ---------------------------------------------------------------------------
// Hover, definition and references
// ---------------------------------------------------------------------------

func TestHover(t *testing.T) {
	doc := testDoc(t, "a[\n-]")

	h := hoverAt(doc, pos(0, 1))
	if h == nil {
		t.Fatal("expected hover on '['")
	}
	content := h.Contents.(protocol.MarkupContent).Value
	if !strings.Contains(content, "OPEN_LOOP") || !strings.Contains(content, "at 2:2") {
		t.Errorf("hover = %q", content)
	}

	h = hoverAt(doc, pos(1, 0))
	if h == nil || !strings.Contains(h.Contents.(protocol.MarkupContent).Value, "DEC") {
		t.Errorf("hover on '-' = %+v", h)
	}

	if hoverAt(doc, pos(0, 0)) != nil {
		t.Error("comment rune should have no hover")
	}
}

func TestHover_BrokenDocument(t *testing.T) {
	if hoverAt(testDoc(t, "[+"), pos(0, 1)) != nil {
		t.Error("no hover expected for a document that does not compile")
	}
}

func TestDefinition(t *testing.T) {
	const uri = protocol.DocumentUri("file:///x.bf")
	doc := testDoc(t, "+[>\n[-]<]")

	loc := definitionAt(uri, doc, pos(0, 1))
	if loc == nil {
		t.Fatal("expected definition for outer '['")
	}
	if loc.URI != uri || loc.Range.Start != pos(1, 4) {
		t.Errorf("outer '[' -> %+v, want 1:4", loc.Range.Start)
	}

	loc = definitionAt(uri, doc, pos(1, 2))
	if loc == nil || loc.Range.Start != pos(1, 0) {
		t.Errorf("inner ']' -> %+v, want 1:0", loc)
	}

	if definitionAt(uri, doc, pos(0, 0)) != nil {
		t.Error("'+' has no definition")
	}
}

func TestReferences(t *testing.T) {
	const uri = protocol.DocumentUri("file:///x.bf")
	doc := testDoc(t, "[[-]]")

	locs := referencesAt(uri, doc, pos(0, 3))
	if len(locs) != 2 {
		t.Fatalf("references = %+v", locs)
	}
	if locs[0].Range.Start != pos(0, 1) || locs[1].Range.Start != pos(0, 3) {
		t.Errorf("references = %+v, want 0:1 and 0:3", locs)
	}
}

func TestCompletionItems(t *testing.T) {
	items := completionItems()
	if len(items) != 8 {
		t.Fatalf("got %d items, want 8", len(items))
	}
	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	if got := strings.Join(labels, ""); got != "><+-[],." {
		t.Errorf("labels = %q", got)
	}
}

func TestUpdateAndLookup(t *testing.T) {
	s := NewLSP(compiler.Options{})
	const uri = protocol.DocumentUri("file:///y.bf")
	if s.lookup(uri) != nil {
		t.Fatal("unexpected document")
	}
	doc := s.update(uri, "+")
	if doc.prog == nil || s.lookup(uri) != doc {
		t.Error("update did not store the compiled document")
	}
}
