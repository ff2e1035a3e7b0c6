package fapi

import (
	"encoding/binary"
	"fmt"
)

// SSB PDU body layout (within a DL_TTI.request PDU)
const (
	ssbOffsetPhysCellID = 0
	ssbOffsetBlockIndex = 2
	ssbOffsetScOffset   = 3
	ssbOffsetBchPayload = 4
	ssbOffsetRsrp       = 8
	ssbPduBodySize      = 10
)

// SSBPdu describes one synchronization block in a DL_TTI.request
type SSBPdu struct {
	PhysCellID          uint16
	SsbBlockIndex       uint8
	SsbSubcarrierOffset uint8
	BchPayload          uint32
	SsbRsrp             uint16
}

// DLTTIPdu is one entry of a DL_TTI.request PDU list. SSB is non-nil only
// for DLTTIPduTypeSSB entries; every other type keeps its body opaque.
type DLTTIPdu struct {
	PduType uint16
	SSB     *SSBPdu
	Payload []byte
}

// DLTTIRequest is the downlink configuration request relayed by the
// standalone transport
type DLTTIRequest struct {
	PhyID uint16
	SFN   uint16
	Slot  uint8
	Pdus  []DLTTIPdu
}

// Parse parses a complete DL_TTI.request message (header included)
func (r *DLTTIRequest) Parse(data []byte) error {
	header, err := ParseHeader(data)
	if err != nil {
		return err
	}
	if header.MessageID != MsgDLTTIRequest {
		return fmt.Errorf("not a DL_TTI.request: message id 0x%02X", header.MessageID)
	}

	body := data[P7HeaderSize : P7HeaderSize+int(header.MessageLength)]
	if len(body) < 4 {
		return fmt.Errorf("DL_TTI.request body too short: %d bytes", len(body))
	}

	r.PhyID = header.PhyID
	r.SFN = binary.BigEndian.Uint16(body[0:2])
	r.Slot = body[2]
	numPdus := int(body[3])

	r.Pdus = make([]DLTTIPdu, 0, numPdus)
	offset := 4
	for i := 0; i < numPdus; i++ {
		if len(body) < offset+4 {
			return fmt.Errorf("DL_TTI.request PDU %d: missing PDU header", i)
		}
		pduType := binary.BigEndian.Uint16(body[offset : offset+2])
		pduSize := int(binary.BigEndian.Uint16(body[offset+2 : offset+4]))
		offset += 4

		if len(body) < offset+pduSize {
			return fmt.Errorf("DL_TTI.request PDU %d: body truncated (%d of %d bytes)",
				i, len(body)-offset, pduSize)
		}
		pduBody := body[offset : offset+pduSize]
		offset += pduSize

		pdu := DLTTIPdu{PduType: pduType}
		if pduType == DLTTIPduTypeSSB {
			if pduSize != ssbPduBodySize {
				return fmt.Errorf("DL_TTI.request PDU %d: bad SSB body size %d", i, pduSize)
			}
			pdu.SSB = &SSBPdu{
				PhysCellID:          binary.BigEndian.Uint16(pduBody[ssbOffsetPhysCellID:]),
				SsbBlockIndex:       pduBody[ssbOffsetBlockIndex],
				SsbSubcarrierOffset: pduBody[ssbOffsetScOffset],
				BchPayload:          binary.BigEndian.Uint32(pduBody[ssbOffsetBchPayload:]),
				SsbRsrp:             binary.BigEndian.Uint16(pduBody[ssbOffsetRsrp:]),
			}
		} else {
			pdu.Payload = make([]byte, pduSize)
			copy(pdu.Payload, pduBody)
		}
		r.Pdus = append(r.Pdus, pdu)
	}

	return nil
}

// Encode encodes the DL_TTI.request to raw bytes, header included
func (r *DLTTIRequest) Encode() ([]byte, error) {
	if len(r.Pdus) > 255 {
		return nil, fmt.Errorf("too many PDUs for DL_TTI.request: %d", len(r.Pdus))
	}

	bodyLen := 4
	for i := range r.Pdus {
		bodyLen += 4
		if r.Pdus[i].PduType == DLTTIPduTypeSSB {
			if r.Pdus[i].SSB == nil {
				return nil, fmt.Errorf("SSB PDU %d has no SSB body", i)
			}
			bodyLen += ssbPduBodySize
		} else {
			bodyLen += len(r.Pdus[i].Payload)
		}
	}
	if bodyLen > 0xFFFF {
		return nil, fmt.Errorf("DL_TTI.request body too large: %d bytes", bodyLen)
	}

	data := make([]byte, P7HeaderSize+bodyLen)
	header := &Header{
		PhyID:         r.PhyID,
		MessageID:     MsgDLTTIRequest,
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
		var pduBody []byte
		if pdu.PduType == DLTTIPduTypeSSB {
			pduBody = make([]byte, ssbPduBodySize)
			binary.BigEndian.PutUint16(pduBody[ssbOffsetPhysCellID:], pdu.SSB.PhysCellID)
			pduBody[ssbOffsetBlockIndex] = pdu.SSB.SsbBlockIndex
			pduBody[ssbOffsetScOffset] = pdu.SSB.SsbSubcarrierOffset
			binary.BigEndian.PutUint32(pduBody[ssbOffsetBchPayload:], pdu.SSB.BchPayload)
			binary.BigEndian.PutUint16(pduBody[ssbOffsetRsrp:], pdu.SSB.SsbRsrp)
		} else {
			pduBody = pdu.Payload
		}

		binary.BigEndian.PutUint16(body[offset:offset+2], pdu.PduType)
		binary.BigEndian.PutUint16(body[offset+2:offset+4], uint16(len(pduBody)))
		offset += 4
		copy(body[offset:], pduBody)
		offset += len(pduBody)
	}

	return data, nil
}

// ParseDLTTIRequest parses a DL_TTI.request from raw bytes
func ParseDLTTIRequest(data []byte) (*DLTTIRequest, error) {
	r := &DLTTIRequest{}
	err := r.Parse(data)
	return r, err
}
