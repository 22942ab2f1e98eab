package dist

import (
	"bytes"
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/chazu/tape/compiler"
	"github.com/chazu/tape/compiler/hash"
	"github.com/chazu/tape/vm"
)

func compileHash(source string) ([32]byte, error) {
	p, err := compiler.Compile(source)
	if err != nil {
		return [32]byte{}, err
	}
	return hash.HashProgram(p)
}

func TestChunk_CBORRoundTrip(t *testing.T) {
	h := sha256.Sum256([]byte("program"))
	c := &Chunk{Hash: h, Content: "+[-]"}

	data, err := MarshalChunk(c)
	if err != nil {
		t.Fatalf("MarshalChunk: %v", err)
	}
	got, err := UnmarshalChunk(data)
	if err != nil {
		t.Fatalf("UnmarshalChunk: %v", err)
	}
	if got.Hash != c.Hash {
		t.Error("Hash mismatch")
	}
	if got.Content != c.Content {
		t.Errorf("Content: got %q, want %q", got.Content, c.Content)
	}
}

func TestMarshalChunk_Deterministic(t *testing.T) {
	c := &Chunk{Hash: sha256.Sum256([]byte("x")), Content: "."}
	a, err := MarshalChunk(c)
	if err != nil {
		t.Fatalf("MarshalChunk: %v", err)
	}
	b, err := MarshalChunk(c)
	if err != nil {
		t.Fatalf("MarshalChunk: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("canonical encoding is not deterministic")
	}
}

func TestUnmarshalReport_Garbage(t *testing.T) {
	if _, err := UnmarshalReport([]byte{0xff, 0x00, 0x13}); err == nil {
		t.Error("expected error for malformed CBOR")
	}
}

func TestVerifyChunk(t *testing.T) {
	src := "++[->+<]"
	sum, err := compileHash(src)
	if err != nil {
		t.Fatalf("compileHash: %v", err)
	}

	good := ProgramChunk(src, sum)
	if err := VerifyChunk(&good, compileHash); err != nil {
		t.Errorf("VerifyChunk(good): %v", err)
	}

	tampered := ProgramChunk(src+"+", sum)
	err = VerifyChunk(&tampered, compileHash)
	if err == nil || !strings.Contains(err.Error(), "hash mismatch") {
		t.Errorf("VerifyChunk(tampered) = %v, want hash mismatch", err)
	}

	broken := ProgramChunk("[", sum)
	err = VerifyChunk(&broken, compileHash)
	if err == nil || !strings.Contains(err.Error(), "compile failed") {
		t.Errorf("VerifyChunk(broken) = %v, want compile failure", err)
	}
}

func TestReport_FromRun(t *testing.T) {
	src := "+++>++>"
	settings := vm.DefaultSettings()
	settings.ArraySize = 8

	in, err := compiler.Build(src, settings, compiler.Options{}, strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	st := in.Ready()
	out, steps := vm.Run(in, st, 0)
	if out.Kind != vm.Halted {
		t.Fatalf("Run outcome = %v, want halted", out)
	}

	sum, err := hash.HashProgram(in.Program())
	if err != nil {
		t.Fatalf("HashProgram: %v", err)
	}
	id := uuid.New()
	r := NewReport(id, ProgramChunk(src, sum), settings, st, out, steps)

	data, err := MarshalReport(r)
	if err != nil {
		t.Fatalf("MarshalReport: %v", err)
	}
	got, err := UnmarshalReport(data)
	if err != nil {
		t.Fatalf("UnmarshalReport: %v", err)
	}

	if got.ID() != id {
		t.Errorf("RunID = %s, want %s", got.ID(), id)
	}
	if got.Outcome != "halted" {
		t.Errorf("Outcome = %q, want halted", got.Outcome)
	}
	if got.Steps != 8 {
		t.Errorf("Steps = %d, want 8", got.Steps)
	}
	if got.Ptr != 2 {
		t.Errorf("Ptr = %d, want 2", got.Ptr)
	}
	if got.TapeLen != 8 {
		t.Errorf("TapeLen = %d, want 8", got.TapeLen)
	}
	if !bytes.Equal(got.Tape, []byte{3, 2}) {
		t.Errorf("Tape = %v, want trimmed [3 2]", got.Tape)
	}
	if want := []byte{3, 2, 0, 0, 0, 0, 0, 0}; !bytes.Equal(got.Cells(), want) {
		t.Errorf("Cells = %v, want %v", got.Cells(), want)
	}
	if got.Settings.NewlineMode != "CRLF" || got.Settings.ArraySize != 8 {
		t.Errorf("Settings = %+v", got.Settings)
	}
	if err := VerifyChunk(&got.Program, compileHash); err != nil {
		t.Errorf("VerifyChunk: %v", err)
	}
}

func TestReport_OutOfBoundIndex(t *testing.T) {
	settings := vm.DefaultSettings()
	settings.ArraySize = 4

	// '<' at cell 0 without wrapping leaves the pointer off the tape.
	in, err := compiler.Build("<+", settings, compiler.Options{}, strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	st := in.Ready()
	out, steps := vm.Run(in, st, 0)
	if out.Kind != vm.IndexOutOfBound {
		t.Fatalf("outcome = %v, want index out of bound", out)
	}

	r := NewReport(uuid.New(), Chunk{}, settings, st, out, steps)
	if r.Index != uint64(^uint(0)) {
		t.Errorf("Index = %d, want %d", r.Index, uint64(^uint(0)))
	}
	if r.Outcome != "index out of bound" {
		t.Errorf("Outcome = %q", r.Outcome)
	}
}
