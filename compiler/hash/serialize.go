package hash

import (
	"encoding/binary"
	"fmt"

	"github.com/chazu/tape/vm"
)

// ---------------------------------------------------------------------------
// Deterministic binary serialization of a compiled program.
//
// Encoding conventions:
//   - First byte: HashVersion (0x01)
//   - Instruction count: uint32 big-endian
//   - Each instruction: its tag byte; loop instructions append their
//     jump target as uint32 big-endian
//
// Source offsets are not serialized, so comments and layout do not affect
// the result.
// ---------------------------------------------------------------------------

// Serialize produces a deterministic byte serialization of a Program.
func Serialize(p *vm.Program) ([]byte, error) {
	s := &serializer{buf: make([]byte, 0, 5+len(p.Instructions))}
	s.writeByte(HashVersion)
	s.writeUint32(uint32(len(p.Instructions)))
	for i, in := range p.Instructions {
		tag, ok := TagFor(in.Op)
		if !ok {
			return nil, fmt.Errorf("hash: instruction %d: no tag for opcode %s", i, in.Op)
		}
		s.writeByte(tag)
		if in.Op.Info().Jump {
			s.writeUint32(uint32(in.Target))
		}
	}
	return s.buf, nil
}

type serializer struct {
	buf []byte
}

func (s *serializer) writeByte(b byte) {
	s.buf = append(s.buf, b)
}

func (s *serializer) writeUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	s.buf = append(s.buf, b[:]...)
}
