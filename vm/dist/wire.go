package dist

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical mode for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dist: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalChunk serializes a Chunk to CBOR bytes.
func MarshalChunk(c *Chunk) ([]byte, error) {
	return cborEncMode.Marshal(c)
}

// UnmarshalChunk deserializes a Chunk from CBOR bytes.
func UnmarshalChunk(data []byte) (*Chunk, error) {
	var c Chunk
	if err := cbor.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("dist: unmarshal chunk: %w", err)
	}
	return &c, nil
}

// MarshalReport serializes a Report to CBOR bytes.
func MarshalReport(r *Report) ([]byte, error) {
	return cborEncMode.Marshal(r)
}

// UnmarshalReport deserializes a Report from CBOR bytes.
func UnmarshalReport(data []byte) (*Report, error) {
	var r Report
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("dist: unmarshal report: %w", err)
	}
	return &r, nil
}

// VerifyChunk compiles source from a chunk and verifies that the resulting
// content hash matches the chunk's declared hash.
//
// The compile function is injected to avoid the dist package depending on
// the compiler package. It should compile the source text and return the
// content hash of the resulting program.
func VerifyChunk(c *Chunk, compile func(source string) ([32]byte, error)) error {
	computed, err := compile(c.Content)
	if err != nil {
		return fmt.Errorf("dist: compile failed: %w", err)
	}
	if computed != c.Hash {
		return fmt.Errorf("dist: hash mismatch: declared %x, computed %x", c.Hash, computed)
	}
	return nil
}
