package hash

import "github.com/chazu/tape/vm"

// ---------------------------------------------------------------------------
// Frozen tag bytes for the program serialization format.
//
// IMPORTANT: These tags are FROZEN. Once assigned, a tag byte must never
// change meaning. Adding new tags is fine; changing existing ones breaks
// all previously computed content hashes.
// ---------------------------------------------------------------------------

// HashVersion is the version prefix for the serialization format.
// Bumping this invalidates all existing content hashes.
const HashVersion byte = 1

const (
	TagReservedZero byte = 0x00 // version prefix / reserved

	TagHalt      byte = 0x01
	TagMoveRight byte = 0x02
	TagMoveLeft  byte = 0x03
	TagIncrement byte = 0x04
	TagDecrement byte = 0x05
	TagOpenLoop  byte = 0x06 // followed by uint32 target
	TagCloseLoop byte = 0x07 // followed by uint32 target
	TagRead      byte = 0x08
	TagWrite     byte = 0x09
)

// opcodeTags decouples the hash format from vm opcode numbering.
var opcodeTags = map[vm.Opcode]byte{
	vm.OpHalt:      TagHalt,
	vm.OpMoveRight: TagMoveRight,
	vm.OpMoveLeft:  TagMoveLeft,
	vm.OpIncrement: TagIncrement,
	vm.OpDecrement: TagDecrement,
	vm.OpOpenLoop:  TagOpenLoop,
	vm.OpCloseLoop: TagCloseLoop,
	vm.OpRead:      TagRead,
	vm.OpWrite:     TagWrite,
}

// TagFor returns the frozen tag for an opcode and whether one is assigned.
func TagFor(op vm.Opcode) (byte, bool) {
	tag, ok := opcodeTags[op]
	return tag, ok
}
