package item

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// PresentationContextItem is the RQ (0x20) or AC (0x21) form depending on
// Type. On the wire: type, reserved, length, context ID, reserved,
// result/reason (AC only, 0 in RQ), reserved, then nested sub-items
// (Abstract/Transfer Syntax for RQ, a single Transfer Syntax for AC).
type PresentationContextItem struct {
	Type      byte // TypePresentationContextRequest or ...Response
	ContextID byte
	// Result is meaningful only when Type == TypePresentationContextResponse.
	Result byte
	Items  []SubItem
}

// Result codes for the AC form (DICOM PS3.8 Table 9-18).
const (
	ResultAcceptance                      byte = 0
	ResultUserRejection                   byte = 1
	ResultNoReasonGiven                   byte = 2
	ResultAbstractSyntaxNotSupported       byte = 3
	ResultTransferSyntaxesNotSupported     byte = 4
)

func (v *PresentationContextItem) Write(w *dicomio.Writer) error {
	if v.Type != TypePresentationContextRequest && v.Type != TypePresentationContextResponse {
		return fmt.Errorf("item: presentation context has invalid type 0x%02x", v.Type)
	}
	body, err := encodeBody(binary.BigEndian, func(bw *dicomio.Writer) error {
		if err := bw.WriteByte(v.ContextID); err != nil {
			return err
		}
		if err := bw.WriteByte(0); err != nil { // reserved
			return err
		}
		if err := bw.WriteByte(v.Result); err != nil {
			return err
		}
		if err := bw.WriteByte(0); err != nil { // reserved
			return err
		}
		for _, item := range v.Items {
			if err := item.Write(bw); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := writeHeader(w, v.Type, uint16(len(body))); err != nil {
		return err
	}
	return w.WriteBytes(body)
}

func (v *PresentationContextItem) String() string {
	kind := "rq"
	if v.Type == TypePresentationContextResponse {
		kind = "ac"
	}
	return fmt.Sprintf("presentation-context-%s{id:%d result:%d items:%s}", kind, v.ContextID, v.Result, ListString(v.Items))
}

func decodePresentationContextItem(r *dicomio.Reader, itemType byte, length uint16) (SubItem, error) {
	v := &PresentationContextItem{Type: itemType}
	limited, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("item: reading presentation context body: %w", err)
	}
	br := dicomio.NewReader(bytes.NewReader(limited), binary.BigEndian, int64(len(limited)))
	v.ContextID, err = br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("item: reading context id: %w", err)
	}
	if v.ContextID%2 != 1 {
		return nil, fmt.Errorf("item: presentation context id %d must be odd", v.ContextID)
	}
	if err := br.Skip(1); err != nil {
		return nil, err
	}
	v.Result, err = br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("item: reading result/reason: %w", err)
	}
	if err := br.Skip(1); err != nil {
		return nil, err
	}
	for !br.IsLimitExhausted() {
		sub, err := DecodeSubItem(br)
		if err != nil {
			return nil, fmt.Errorf("item: decoding presentation context sub-item: %w", err)
		}
		v.Items = append(v.Items, sub)
	}
	return v, nil
}
