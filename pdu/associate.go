package pdu

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"

	"github.com/dulengine/dul/aetitle"
	"github.com/dulengine/dul/pdu/item"
)

// CurrentProtocolVersion is the only protocol-version value this engine
// proposes or accepts (DICOM PS3.8 §9.3.2, field always 1 to date).
const CurrentProtocolVersion uint16 = 1

// AAssociate is the shared shape of A-ASSOCIATE-RQ and A-ASSOCIATE-AC
// (DICOM PS3.8 §9.3.2, §9.3.3): same wire layout, distinguished only by
// Type.
type AAssociate struct {
	Type            Type // TypeAAssociateRQ or TypeAAssociateAC
	ProtocolVersion uint16
	CalledAETitle   aetitle.AET
	CallingAETitle  aetitle.AET
	Items           []item.SubItem
}

func (pdu *AAssociate) PDUType() Type { return pdu.Type }

func (pdu *AAssociate) WritePayload(w *dicomio.Writer) error {
	if pdu.CalledAETitle.IsZero() || pdu.CallingAETitle.IsZero() {
		return fmt.Errorf("pdu: %s requires both called and calling AE titles", pdu.Type)
	}
	if err := w.WriteUInt16(pdu.ProtocolVersion); err != nil {
		return err
	}
	if err := w.WriteZeros(2); err != nil {
		return err
	}
	if err := w.WriteString(fillString(pdu.CalledAETitle.String(), aetitle.WireLength)); err != nil {
		return err
	}
	if err := w.WriteString(fillString(pdu.CallingAETitle.String(), aetitle.WireLength)); err != nil {
		return err
	}
	if err := w.WriteZeros(8 * 4); err != nil {
		return err
	}
	for _, it := range pdu.Items {
		if err := it.Write(w); err != nil {
			return err
		}
	}
	return nil
}

func (pdu *AAssociate) String() string {
	return fmt.Sprintf("%s{version:%d called:%q calling:%q items:%s}",
		pdu.Type, pdu.ProtocolVersion, pdu.CalledAETitle, pdu.CallingAETitle, subItemList(pdu.Items))
}

func readAAssociate(d *dicomio.Reader, t Type) (*AAssociate, error) {
	pdu := &AAssociate{Type: t}
	var err error
	pdu.ProtocolVersion, err = d.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("pdu: reading protocol version: %w", err)
	}
	if err := d.Skip(2); err != nil {
		return nil, err
	}
	calledRaw, err := d.ReadString(aetitle.WireLength)
	if err != nil {
		return nil, fmt.Errorf("pdu: reading called AE title: %w", err)
	}
	callingRaw, err := d.ReadString(aetitle.WireLength)
	if err != nil {
		return nil, fmt.Errorf("pdu: reading calling AE title: %w", err)
	}
	if err := d.Skip(8 * 4); err != nil {
		return nil, err
	}
	pdu.CalledAETitle, err = aetitle.FromWire([]byte(calledRaw))
	if err != nil {
		return nil, fmt.Errorf("pdu: called AE title: %w", err)
	}
	pdu.CallingAETitle, err = aetitle.FromWire([]byte(callingRaw))
	if err != nil {
		return nil, fmt.Errorf("pdu: calling AE title: %w", err)
	}
	for !d.IsLimitExhausted() {
		it, err := item.DecodeSubItem(d)
		if err != nil {
			return nil, fmt.Errorf("pdu: decoding %s item: %w", t, err)
		}
		pdu.Items = append(pdu.Items, it)
	}
	return pdu, nil
}

// NewAAssociateRQ builds a proposing A-ASSOCIATE-RQ.
func NewAAssociateRQ(called, calling aetitle.AET, items []item.SubItem) *AAssociate {
	return &AAssociate{Type: TypeAAssociateRQ, ProtocolVersion: CurrentProtocolVersion, CalledAETitle: called, CallingAETitle: calling, Items: items}
}

// NewAAssociateAC builds an accepting A-ASSOCIATE-AC; per DICOM PS3.8
// §9.3.3, the AE titles are echoed back from the RQ unchanged.
func NewAAssociateAC(called, calling aetitle.AET, items []item.SubItem) *AAssociate {
	return &AAssociate{Type: TypeAAssociateAC, ProtocolVersion: CurrentProtocolVersion, CalledAETitle: called, CallingAETitle: calling, Items: items}
}
