package pdu

import "github.com/suyashkumar/dicom/pkg/dicomio"

// AReleaseRQ is the association release request PDU (DICOM PS3.8 §9.3.6);
// its 4-byte payload is reserved and always zero.
type AReleaseRQ struct{}

func (pdu *AReleaseRQ) PDUType() Type { return TypeAReleaseRQ }

func (pdu *AReleaseRQ) WritePayload(w *dicomio.Writer) error { return w.WriteZeros(4) }

func (pdu *AReleaseRQ) String() string { return "A-RELEASE-RQ" }

func readAReleaseRQ(d *dicomio.Reader) (*AReleaseRQ, error) {
	if err := d.Skip(4); err != nil {
		return nil, err
	}
	return &AReleaseRQ{}, nil
}

// AReleaseRP is the association release response PDU (DICOM PS3.8
// §9.3.7); its 4-byte payload is reserved and always zero.
type AReleaseRP struct{}

func (pdu *AReleaseRP) PDUType() Type { return TypeAReleaseRP }

func (pdu *AReleaseRP) WritePayload(w *dicomio.Writer) error { return w.WriteZeros(4) }

func (pdu *AReleaseRP) String() string { return "A-RELEASE-RP" }

func readAReleaseRP(d *dicomio.Reader) (*AReleaseRP, error) {
	if err := d.Skip(4); err != nil {
		return nil, err
	}
	return &AReleaseRP{}, nil
}
