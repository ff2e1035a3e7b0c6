package fapi

import (
	"encoding/binary"
	"fmt"
)

// RACH.indication PDU body layout
const (
	rachOffsetPhysCellID    = 0
	rachOffsetSymbolIndex   = 2
	rachOffsetSlotIndex     = 3
	rachOffsetFreqIndex     = 5
	rachOffsetAvgRssi       = 6
	rachOffsetAvgSnr        = 7
	rachOffsetPreambleIndex = 8
	rachOffsetTimingAdvance = 9
	rachOffsetPreamblePwr   = 11
	rachPduBodySize         = 15
)

// RachPdu reports one detected random-access preamble
type RachPdu struct {
	PhysCellID    uint16
	SymbolIndex   uint8
	SlotIndex     uint16
	FreqIndex     uint8
	AvgRssi       uint8
	AvgSnr        uint8
	PreambleIndex uint8
	TimingAdvance uint16
	PreamblePwr   uint32
}

// RachIndication is the outbound random-access indication sent to the proxy
// in standalone mode
type RachIndication struct {
	PhyID uint16
	SFN   uint16
	Slot  uint8
	Pdus  []RachPdu
}

// Encode encodes the RACH.indication to raw bytes, header included
func (r *RachIndication) Encode() ([]byte, error) {
	if len(r.Pdus) > 255 {
		return nil, fmt.Errorf("too many PDUs for RACH.indication: %d", len(r.Pdus))
	}

	bodyLen := 4 + len(r.Pdus)*rachPduBodySize
	data := make([]byte, P7HeaderSize+bodyLen)

	header := &Header{
		PhyID:         r.PhyID,
		MessageID:     MsgRachIndication,
		MessageLength: uint16(bodyLen),
	}
	if err := header.Encode(data); err != nil {
		return nil, err
	}

	body := data[P7HeaderSize:]
	binary.BigEndian.PutUint16(body[0:2], r.SFN)
	body[2] = r.Slot
	body[3] = byte(len(r.Pdus))

	offset := 4
	for i := range r.Pdus {
		pdu := &r.Pdus[i]
		b := body[offset : offset+rachPduBodySize]
		binary.BigEndian.PutUint16(b[rachOffsetPhysCellID:], pdu.PhysCellID)
		b[rachOffsetSymbolIndex] = pdu.SymbolIndex
		binary.BigEndian.PutUint16(b[rachOffsetSlotIndex:], pdu.SlotIndex)
		b[rachOffsetFreqIndex] = pdu.FreqIndex
		b[rachOffsetAvgRssi] = pdu.AvgRssi
		b[rachOffsetAvgSnr] = pdu.AvgSnr
		b[rachOffsetPreambleIndex] = pdu.PreambleIndex
		binary.BigEndian.PutUint16(b[rachOffsetTimingAdvance:], pdu.TimingAdvance)
		binary.BigEndian.PutUint32(b[rachOffsetPreamblePwr:], pdu.PreamblePwr)
		offset += rachPduBodySize
	}

	return data, nil
}

// Parse parses a complete RACH.indication message (header included)
func (r *RachIndication) Parse(data []byte) error {
	header, err := ParseHeader(data)
	if err != nil {
		return err
	}
	if header.MessageID != MsgRachIndication {
		return fmt.Errorf("not a RACH.indication: message id 0x%02X", header.MessageID)
	}

	body := data[P7HeaderSize : P7HeaderSize+int(header.MessageLength)]
	if len(body) < 4 {
		return fmt.Errorf("RACH.indication body too short: %d bytes", len(body))
	}

	r.PhyID = header.PhyID
	r.SFN = binary.BigEndian.Uint16(body[0:2])
	r.Slot = body[2]
	numPdus := int(body[3])

	if len(body) < 4+numPdus*rachPduBodySize {
		return fmt.Errorf("RACH.indication truncated: %d PDUs claimed, %d bytes left",
			numPdus, len(body)-4)
	}

	r.Pdus = make([]RachPdu, numPdus)
	offset := 4
	for i := 0; i < numPdus; i++ {
		b := body[offset : offset+rachPduBodySize]
		r.Pdus[i] = RachPdu{
			PhysCellID:    binary.BigEndian.Uint16(b[rachOffsetPhysCellID:]),
			SymbolIndex:   b[rachOffsetSymbolIndex],
			SlotIndex:     binary.BigEndian.Uint16(b[rachOffsetSlotIndex:]),
			FreqIndex:     b[rachOffsetFreqIndex],
			AvgRssi:       b[rachOffsetAvgRssi],
			AvgSnr:        b[rachOffsetAvgSnr],
			PreambleIndex: b[rachOffsetPreambleIndex],
			TimingAdvance: binary.BigEndian.Uint16(b[rachOffsetTimingAdvance:]),
			PreamblePwr:   binary.BigEndian.Uint32(b[rachOffsetPreamblePwr:]),
		}
		offset += rachPduBodySize
	}

	return nil
}

// ParseRachIndication parses a RACH.indication from raw bytes
func ParseRachIndication(data []byte) (*RachIndication, error) {
	r := &RachIndication{}
	err := r.Parse(data)
	return r, err
}
