package ifmodule

import (
	"fmt"

	"github.com/openverso/nrue-if/pkg/fapi"
	"github.com/openverso/nrue-if/pkg/logger"
)

// shiftResult folds a signed handler result into the outcome mask at the
// kind's tag position. Negative results sign-extend before the shift, so a
// failure smears high bits across the mask exactly as downstream consumers
// of the FAPI mask expect.
func shiftResult(ret int, tag uint8) uint32 {
	return uint32(int32(ret) << tag)
}

// DownlinkIndication dispatches one slot's downlink batch to the MAC
// handlers and returns the aggregated outcome mask.
//
// Results of PDUs of the same kind are OR'd into a single mask position, so
// repeated same-kind PDUs in one batch are indistinguishable in the result;
// consumers of the mask depend on that aggregation. Each DCI entry that
// succeeds triggers its own scheduled-response delivery.
//
// A non-nil error means a wiring defect (missing responder) and is
// unrecoverable; per-PDU decode failures are recorded in the mask and
// dispatch continues.
func (m *Module) DownlinkIndication(dl *fapi.DownlinkIndication) (uint32, error) {
	var retMask uint32

	if dl.DCIInd == nil && dl.RxInd == nil {
		// Pure scheduling tick: prepare the next DCI reception
		m.scheduler.Run(dl, nil)
		return 0, nil
	}

	m.CurrentFrame = dl.Frame
	m.CurrentSlot = dl.Slot

	for i := range dl.DCIInd {
		ret := m.handler.ProcessDCI(dl.ModuleID, dl.CCID, dl.GnbIndex, dl.Frame, dl.Slot, &dl.DCIInd[i])
		retMask |= shiftResult(ret, fapi.DCIIndicationTag)
		m.observe(fapi.RxPduTypeName(fapi.DCIIndicationTag), ret < 0)

		if ret < 0 {
			m.log.Debug("DCI indication failed",
				logger.Uint32("module_id", dl.ModuleID),
				logger.Int("index", i))
			continue
		}

		if m.responder == nil {
			return retMask, fmt.Errorf("module %d: scheduled-response responder missing at delivery", m.ID)
		}

		resp := m.buildScheduledResponse(dl)
		if err := m.responder.Deliver(resp); err != nil {
			m.log.Error("Scheduled response delivery failed",
				logger.Uint32("module_id", dl.ModuleID),
				logger.Error(err))
		}
	}

	for i := range dl.RxInd {
		pdu := &dl.RxInd[i]
		m.log.Debug("Dispatching downlink PDU to MAC",
			logger.String("kind", fapi.RxPduTypeName(pdu.PduType)),
			logger.Int("index", i),
			logger.Int("total", len(dl.RxInd)))

		switch pdu.PduType {
		case fapi.RxPduTypeMIB:
			ret := m.handler.DecodeMIB(dl.ModuleID, dl.CCID, dl.GnbIndex, pdu)
			retMask |= shiftResult(ret, fapi.RxPduTypeMIB)
			m.observe(fapi.RxPduTypeName(pdu.PduType), ret < 0)

		case fapi.RxPduTypeSIB:
			ret := m.handler.DecodeSIB(dl.ModuleID, dl.CCID, dl.GnbIndex, pdu)
			retMask |= shiftResult(ret, fapi.RxPduTypeSIB)
			m.observe(fapi.RxPduTypeName(pdu.PduType), ret < 0)

		case fapi.RxPduTypeDLSCH:
			ret := m.handler.DeliverSDU(dl, i)
			retMask |= shiftResult(ret, fapi.RxPduTypeDLSCH)
			m.observe(fapi.RxPduTypeName(pdu.PduType), ret < 0)

		case fapi.RxPduTypeRAR:
			// RAR payloads ride the same MAC delivery path as DLSCH
			ret := m.handler.DeliverSDU(dl, i)
			retMask |= shiftResult(ret, fapi.RxPduTypeRAR)
			m.observe(fapi.RxPduTypeName(pdu.PduType), ret < 0)

		default:
			// Unrecognized kinds are ignored
		}
	}

	// Drop the list references so a stale batch cannot be redispatched;
	// the underlying buffers stay with the producer.
	dl.DCIInd = nil
	dl.RxInd = nil

	return retMask, nil
}

// buildScheduledResponse assembles a fresh response descriptor from the
// scheduler's current downlink configuration
func (m *Module) buildScheduledResponse(dl *fapi.DownlinkIndication) *fapi.ScheduledResponse {
	return &fapi.ScheduledResponse{
		ModuleID: dl.ModuleID,
		CCID:     dl.CCID,
		Frame:    dl.Frame,
		Slot:     dl.Slot,
		ThreadID: dl.ThreadID,
		DLConfig: m.scheduler.DLConfig(dl.ModuleID),
	}
}

// DCIRequest fills a downlink reception configuration for the given
// (frame,slot) from the scheduler's rolling state
func (m *Module) DCIRequest(frame uint16, slot uint8) *fapi.DLConfigRequest {
	cfg := m.scheduler.DLConfig(m.ID)

	m.log.Debug("UE DCI configuration",
		logger.Uint16("frame", frame),
		logger.Uint16("slot", uint16(slot)))

	return cfg
}
