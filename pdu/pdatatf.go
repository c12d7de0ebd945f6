package pdu

import (
	"bytes"
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// PresentationDataValueItem is one PDV fragment inside a P-DATA-TF PDU
// (DICOM PS3.8 §9.3.5.1). Its framing differs from the pdu/item package's
// variable items: a 4-byte length followed by a 1-byte context ID and a
// 1-byte message-control-header, then Value.
type PresentationDataValueItem struct {
	ContextID byte
	// Command is true when Value holds the DIMSE command set, false when
	// it holds dataset bytes (spec.md §5).
	Command bool
	// Last marks the final fragment of a DIMSE message's command set or
	// of its dataset; each half ends with its own Last fragment (spec.md
	// §5's PDV fragmentation/reassembly).
	Last  bool
	Value []byte
}

func (v *PresentationDataValueItem) Write(w *dicomio.Writer) error {
	var header byte
	if v.Command {
		header |= 0x01
	}
	if v.Last {
		header |= 0x02
	}
	if err := w.WriteUInt32(uint32(2 + len(v.Value))); err != nil {
		return err
	}
	if err := w.WriteByte(v.ContextID); err != nil {
		return err
	}
	if err := w.WriteByte(header); err != nil {
		return err
	}
	return w.WriteBytes(v.Value)
}

func (v *PresentationDataValueItem) String() string {
	return fmt.Sprintf("pdv{context:%d command:%v last:%v %dB}", v.ContextID, v.Command, v.Last, len(v.Value))
}

func readPresentationDataValueItem(d *dicomio.Reader) (*PresentationDataValueItem, error) {
	length, err := d.ReadUInt32()
	if err != nil {
		return nil, err
	}
	if length < 2 {
		return nil, fmt.Errorf("pdu: pdv item length %d smaller than the 2-byte context+header it must contain", length)
	}
	contextID, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	header, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if header&0xfc != 0 {
		return nil, fmt.Errorf("pdu: pdv message control header 0x%02x has reserved bits set", header)
	}
	value, err := d.ReadBytes(int(length - 2))
	if err != nil {
		return nil, err
	}
	return &PresentationDataValueItem{
		ContextID: contextID,
		Command:   header&0x01 != 0,
		Last:      header&0x02 != 0,
		Value:     value,
	}, nil
}

// PDataTF carries one or more PDV fragments (DICOM PS3.8 §9.3.5).
type PDataTF struct {
	Items []*PresentationDataValueItem
}

func (pdu *PDataTF) PDUType() Type { return TypePDataTF }

func (pdu *PDataTF) WritePayload(w *dicomio.Writer) error {
	for _, it := range pdu.Items {
		if err := it.Write(w); err != nil {
			return err
		}
	}
	return nil
}

func (pdu *PDataTF) String() string {
	var b bytes.Buffer
	b.WriteString("P-DATA-TF{items:[")
	for i, it := range pdu.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(it.String())
	}
	b.WriteString("]}")
	return b.String()
}

func readPDataTF(d *dicomio.Reader) (*PDataTF, error) {
	pdu := &PDataTF{}
	for !d.IsLimitExhausted() {
		it, err := readPresentationDataValueItem(d)
		if err != nil {
			return nil, fmt.Errorf("pdu: decoding pdv item: %w", err)
		}
		pdu.Items = append(pdu.Items, it)
	}
	return pdu, nil
}
