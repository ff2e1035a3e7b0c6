package fapi

import (
	"encoding/binary"
	"fmt"
)

// Header field offsets
const (
	headerOffsetPhyID     = 0
	headerOffsetMessageID = 2
	headerOffsetLength    = 4
	headerOffsetSegment   = 6
	headerOffsetChecksum  = 8
	headerOffsetTimestamp = 12
)

// Header is the fixed preamble of every P7 message. MessageLength covers the
// body only, not the header itself.
type Header struct {
	PhyID           uint16
	MessageID       uint16
	MessageLength   uint16
	SegmentSequence uint16
	Checksum        uint32
	Timestamp       uint32
}

// Parse parses a P7 header from raw bytes
func (h *Header) Parse(data []byte) error {
	if len(data) < P7HeaderSize {
		return fmt.Errorf("message too short for P7 header: %d bytes (need %d)", len(data), P7HeaderSize)
	}

	h.PhyID = binary.BigEndian.Uint16(data[headerOffsetPhyID:])
	h.MessageID = binary.BigEndian.Uint16(data[headerOffsetMessageID:])
	h.MessageLength = binary.BigEndian.Uint16(data[headerOffsetLength:])
	h.SegmentSequence = binary.BigEndian.Uint16(data[headerOffsetSegment:])
	h.Checksum = binary.BigEndian.Uint32(data[headerOffsetChecksum:])
	h.Timestamp = binary.BigEndian.Uint32(data[headerOffsetTimestamp:])

	if int(h.MessageLength) > len(data)-P7HeaderSize {
		return fmt.Errorf("truncated P7 body: header claims %d bytes, %d available",
			h.MessageLength, len(data)-P7HeaderSize)
	}

	return nil
}

// Encode writes the header into the first P7HeaderSize bytes of data
func (h *Header) Encode(data []byte) error {
	if len(data) < P7HeaderSize {
		return fmt.Errorf("buffer too small for P7 header: %d bytes", len(data))
	}

	binary.BigEndian.PutUint16(data[headerOffsetPhyID:], h.PhyID)
	binary.BigEndian.PutUint16(data[headerOffsetMessageID:], h.MessageID)
	binary.BigEndian.PutUint16(data[headerOffsetLength:], h.MessageLength)
	binary.BigEndian.PutUint16(data[headerOffsetSegment:], h.SegmentSequence)
	binary.BigEndian.PutUint32(data[headerOffsetChecksum:], h.Checksum)
	binary.BigEndian.PutUint32(data[headerOffsetTimestamp:], h.Timestamp)

	return nil
}

// ParseHeader parses a P7 header from raw bytes
func ParseHeader(data []byte) (*Header, error) {
	h := &Header{}
	err := h.Parse(data)
	return h, err
}
