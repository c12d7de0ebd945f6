package pdu

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// Result, Source and Reason code spaces for A-ASSOCIATE-RJ, DICOM PS3.8
// §9.3.4 Table 9-21.
type RejectResult byte

const (
	RejectResultPermanent RejectResult = 1
	RejectResultTransient RejectResult = 2
)

type RejectSource byte

const (
	RejectSourceServiceUser                 RejectSource = 1
	RejectSourceServiceProviderACSE         RejectSource = 2
	RejectSourceServiceProviderPresentation RejectSource = 3
)

// RejectReason is interpreted according to RejectSource; the numeric
// values below are taken from the service-user source (1) space. Callers
// combining a different source must pick the matching reason constant
// from DICOM PS3.8 Table 9-21.
type RejectReason byte

const (
	RejectReasonNoReasonGiven                     RejectReason = 1
	RejectReasonApplicationContextNameNotSupported RejectReason = 2
	RejectReasonCallingAETitleNotRecognized        RejectReason = 3
	RejectReasonCalledAETitleNotRecognized         RejectReason = 7
)

// AAssociateRJ is the association rejection PDU (DICOM PS3.8 §9.3.4).
type AAssociateRJ struct {
	Result RejectResult
	Source RejectSource
	Reason RejectReason
}

func (pdu *AAssociateRJ) PDUType() Type { return TypeAAssociateRJ }

func (pdu *AAssociateRJ) WritePayload(w *dicomio.Writer) error {
	if err := w.WriteZeros(1); err != nil {
		return err
	}
	if err := w.WriteByte(byte(pdu.Result)); err != nil {
		return err
	}
	if err := w.WriteByte(byte(pdu.Source)); err != nil {
		return err
	}
	return w.WriteByte(byte(pdu.Reason))
}

func (pdu *AAssociateRJ) String() string {
	return fmt.Sprintf("A-ASSOCIATE-RJ{result:%d source:%d reason:%d}", pdu.Result, pdu.Source, pdu.Reason)
}

func readAAssociateRJ(d *dicomio.Reader) (*AAssociateRJ, error) {
	if err := d.Skip(1); err != nil {
		return nil, err
	}
	result, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	source, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	reason, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	return &AAssociateRJ{Result: RejectResult(result), Source: RejectSource(source), Reason: RejectReason(reason)}, nil
}
