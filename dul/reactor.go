package dul

import (
	"errors"
	"io"
	"net"

	"github.com/rs/zerolog"

	"github.com/dulengine/dul/pdu"
)

// pduToEvent maps a decoded PDU to the Event it injects into the state
// machine (DICOM PS3.8 Table 9-10's "PDU received" column).
func pduToEvent(p pdu.PDU) (Event, error) {
	switch v := p.(type) {
	case *pdu.AAssociate:
		if v.Type == pdu.TypeAAssociateRQ {
			return EvtAAssociateRQ, nil
		}
		return EvtAAssociateAC, nil
	case *pdu.AAssociateRJ:
		return EvtAAssociateRJ, nil
	case *pdu.PDataTF:
		return EvtPDataTF, nil
	case *pdu.AReleaseRQ:
		return EvtAReleaseRQ, nil
	case *pdu.AReleaseRP:
		return EvtAReleaseRP, nil
	case *pdu.AAbort:
		return EvtAAbort, nil
	default:
		return EvtInvalidPDU, errors.New("dul: undecodable PDU type reached the reactor")
	}
}

// ReadLoop decodes PDUs off conn and posts them as Input values onto
// events until the connection closes or a read fails, mirroring the
// network-reader side of the association control state machine. It
// runs in its own goroutine; the caller's Run loop drains events and
// calls Machine.Step.
func ReadLoop(conn net.Conn, maxPDUSize uint32, events chan<- Input, log zerolog.Logger) {
	for {
		p, err := pdu.ReadPDU(conn, maxPDUSize)
		if err != nil {
			if errors.Is(err, io.EOF) {
				events <- Input{Event: EvtTransportClosed}
			} else {
				log.Debug().Err(err).Msg("dul: PDU read failed")
				events <- Input{Event: EvtInvalidPDU, Err: err}
			}
			return
		}
		log.Trace().Str("pdu", p.String()).Msg("dul: received PDU")
		ev, err := pduToEvent(p)
		if err != nil {
			events <- Input{Event: EvtInvalidPDU, PDU: p, Err: err}
			return
		}
		events <- Input{Event: ev, PDU: p}
	}
}

// SendFunc wraps a net.Conn as a Hooks.Send implementation, encoding p
// and writing it whole; a short write or encode failure is treated as a
// transport failure the caller should abort on.
func SendFunc(conn net.Conn) func(p pdu.PDU) error {
	return func(p pdu.PDU) error {
		wire, err := pdu.EncodePDU(p)
		if err != nil {
			return err
		}
		_, err = conn.Write(wire)
		return err
	}
}
