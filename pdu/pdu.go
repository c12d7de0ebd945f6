// Package pdu implements the seven DICOM Upper Layer Protocol Data Units
// (spec.md §4.1, §4.2, §4.3) and the 6-byte header framing shared by all
// of them: a 1-byte type, a reserved byte, and a 4-byte big-endian length
// of the payload that follows.
package pdu

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/suyashkumar/dicom/pkg/dicomio"

	"github.com/dulengine/dul/pdu/item"
)

// Type identifies one of the seven PDU kinds (DICOM PS3.8 Table 9-1).
type Type byte

const (
	TypeAAssociateRQ Type = 1
	TypeAAssociateAC Type = 2
	TypeAAssociateRJ Type = 3
	TypePDataTF      Type = 4
	TypeAReleaseRQ   Type = 5
	TypeAReleaseRP   Type = 6
	TypeAAbort       Type = 7
)

func (t Type) String() string {
	switch t {
	case TypeAAssociateRQ:
		return "A-ASSOCIATE-RQ"
	case TypeAAssociateAC:
		return "A-ASSOCIATE-AC"
	case TypeAAssociateRJ:
		return "A-ASSOCIATE-RJ"
	case TypePDataTF:
		return "P-DATA-TF"
	case TypeAReleaseRQ:
		return "A-RELEASE-RQ"
	case TypeAReleaseRP:
		return "A-RELEASE-RP"
	case TypeAAbort:
		return "A-ABORT"
	default:
		return fmt.Sprintf("PDU(0x%02x)", byte(t))
	}
}

// PDU is implemented by every upper layer protocol data unit.
type PDU interface {
	// PDUType returns the wire type code for this PDU.
	PDUType() Type
	// WritePayload encodes everything after the 6-byte common header.
	WritePayload(w *dicomio.Writer) error
	String() string
}

// fillString pads or truncates s to exactly n bytes, space-padded, for
// the fixed-width AE title fields (spec.md §3, §4.2).
func fillString(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	for len(s) < n {
		s += " "
	}
	return s
}

// EncodePDU renders pdu's full wire form: 6-byte header followed by its
// payload.
func EncodePDU(pdu PDU) ([]byte, error) {
	var payloadBuf bytes.Buffer
	w := dicomio.NewWriter(&payloadBuf, binary.BigEndian, false)
	if err := pdu.WritePayload(w); err != nil {
		return nil, fmt.Errorf("pdu: encoding %s payload: %w", pdu.PDUType(), err)
	}
	payload := payloadBuf.Bytes()

	header := make([]byte, 6)
	header[0] = byte(pdu.PDUType())
	header[1] = 0 // reserved
	binary.BigEndian.PutUint32(header[2:6], uint32(len(payload)))
	return append(header, payload...), nil
}

// ReadPDU reads one complete PDU from r, rejecting a declared payload
// length larger than 2*maxPDUSize as a guard against a malformed or
// hostile length field (spec.md's supplemented max-PDU-size transport
// guard; DICOM PS3.8 does not itself bound this field).
func ReadPDU(r io.Reader, maxPDUSize uint32) (PDU, error) {
	header := make([]byte, 6)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("pdu: reading header: %w", err)
	}
	pduType := Type(header[0])
	length := binary.BigEndian.Uint32(header[2:6])
	if maxPDUSize != 0 && uint64(length) > uint64(maxPDUSize)*2 {
		return nil, fmt.Errorf("pdu: declared length %d exceeds 2x configured max PDU size %d", length, maxPDUSize)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("pdu: reading %s payload (%d bytes): %w", pduType, length, err)
	}
	d := dicomio.NewReader(bytes.NewReader(body), binary.BigEndian, int64(length))

	switch pduType {
	case TypeAAssociateRQ:
		return readAAssociate(d, TypeAAssociateRQ)
	case TypeAAssociateAC:
		return readAAssociate(d, TypeAAssociateAC)
	case TypeAAssociateRJ:
		return readAAssociateRJ(d)
	case TypePDataTF:
		return readPDataTF(d)
	case TypeAReleaseRQ:
		return readAReleaseRQ(d)
	case TypeAReleaseRP:
		return readAReleaseRP(d)
	case TypeAAbort:
		return readAAbort(d)
	default:
		return nil, fmt.Errorf("pdu: unknown PDU type 0x%02x", byte(pduType))
	}
}

func subItemList(items []item.SubItem) string {
	return item.ListString(items)
}
