package hash

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/chazu/tape/vm"
)

// Sum is a SHA-256 program fingerprint.
type Sum [32]byte

// String returns the hex encoding of the sum.
func (s Sum) String() string {
	return hex.EncodeToString(s[:])
}

// Short returns the first 12 hex digits, for log lines.
func (s Sum) Short() string {
	return s.String()[:12]
}

// HashProgram computes the SHA-256 content hash of a compiled program.
//
// The hash covers the resolved instruction list only. Two sources that
// differ solely in comments or whitespace compile to the same hash.
func HashProgram(p *vm.Program) (Sum, error) {
	data, err := Serialize(p)
	if err != nil {
		return Sum{}, err
	}
	return sha256.Sum256(data), nil
}
