package fapi

import (
	"encoding/binary"
	"fmt"
)

// SfnSlot is a (frame,slot) pair bit-packed into 16 bits: the system frame
// number in the upper 10 bits, the slot in the lower 6. It travels on the
// wire as exactly two little-endian bytes and doubles as the slot tick.
type SfnSlot uint16

// NewSfnSlot packs a frame and slot into an SfnSlot
func NewSfnSlot(sfn uint16, slot uint8) SfnSlot {
	return SfnSlot(uint16(sfn)<<6 | uint16(slot)&0x3F)
}

// Sfn returns the system frame number (0-1023)
func (s SfnSlot) Sfn() uint16 {
	return uint16(s) >> 6
}

// Slot returns the slot within the frame (0-63)
func (s SfnSlot) Slot() uint8 {
	return uint8(s) & 0x3F
}

// Bytes encodes the slot tick as two little-endian bytes
func (s SfnSlot) Bytes() []byte {
	buf := make([]byte, SfnSlotSize)
	binary.LittleEndian.PutUint16(buf, uint16(s))
	return buf
}

func (s SfnSlot) String() string {
	return fmt.Sprintf("%d.%d", s.Sfn(), s.Slot())
}

// ParseSfnSlot decodes a slot tick from raw bytes
func ParseSfnSlot(data []byte) (SfnSlot, error) {
	if len(data) != SfnSlotSize {
		return 0, fmt.Errorf("invalid sfn/slot size: %d (expected %d)", len(data), SfnSlotSize)
	}
	return SfnSlot(binary.LittleEndian.Uint16(data)), nil
}
