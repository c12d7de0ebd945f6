package item

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// UserInformationItem (0x50) is a container for the sub-items below.
type UserInformationItem struct {
	Items []SubItem
}

func (v *UserInformationItem) Write(w *dicomio.Writer) error {
	body, err := encodeBody(binary.BigEndian, func(bw *dicomio.Writer) error {
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
	if err := writeHeader(w, TypeUserInformation, uint16(len(body))); err != nil {
		return err
	}
	return w.WriteBytes(body)
}

func (v *UserInformationItem) String() string {
	return fmt.Sprintf("user-information{%s}", ListString(v.Items))
}

func decodeUserInformationItem(r *dicomio.Reader, length uint16) (SubItem, error) {
	body, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("item: reading user-information body: %w", err)
	}
	br := dicomio.NewReader(bytes.NewReader(body), binary.BigEndian, int64(len(body)))
	v := &UserInformationItem{}
	for !br.IsLimitExhausted() {
		sub, err := DecodeSubItem(br)
		if err != nil {
			return nil, fmt.Errorf("item: decoding user-information sub-item: %w", err)
		}
		v.Items = append(v.Items, sub)
	}
	return v, nil
}

// MaximumLengthItem (0x51) advertises the maximum PDU length the sender
// is willing to receive. 0 means unlimited.
type MaximumLengthItem struct {
	MaximumLengthReceived uint32
}

func (v *MaximumLengthItem) Write(w *dicomio.Writer) error {
	if err := writeHeader(w, TypeMaximumLength, 4); err != nil {
		return err
	}
	return w.WriteUInt32(v.MaximumLengthReceived)
}

func (v *MaximumLengthItem) String() string {
	return fmt.Sprintf("max-length{%d}", v.MaximumLengthReceived)
}

func decodeMaximumLengthItem(r *dicomio.Reader, length uint16) (SubItem, error) {
	if length != 4 {
		return nil, fmt.Errorf("item: max-length item must be 4 bytes, got %d", length)
	}
	n, err := r.ReadUInt32()
	if err != nil {
		return nil, fmt.Errorf("item: reading max-length value: %w", err)
	}
	return &MaximumLengthItem{MaximumLengthReceived: n}, nil
}

// AsyncOpsWindowItem (0x53), PS3.7 Annex D.3.3.3.
type AsyncOpsWindowItem struct {
	MaxOpsInvoked   uint16
	MaxOpsPerformed uint16
}

func (v *AsyncOpsWindowItem) Write(w *dicomio.Writer) error {
	if err := writeHeader(w, TypeAsynchronousOperationsWindow, 4); err != nil {
		return err
	}
	if err := w.WriteUInt16(v.MaxOpsInvoked); err != nil {
		return err
	}
	return w.WriteUInt16(v.MaxOpsPerformed)
}

func (v *AsyncOpsWindowItem) String() string {
	return fmt.Sprintf("async-ops-window{invoked:%d performed:%d}", v.MaxOpsInvoked, v.MaxOpsPerformed)
}

func decodeAsyncOpsWindowItem(r *dicomio.Reader, length uint16) (SubItem, error) {
	if length != 4 {
		return nil, fmt.Errorf("item: async-ops-window item must be 4 bytes, got %d", length)
	}
	invoked, err := r.ReadUInt16()
	if err != nil {
		return nil, err
	}
	performed, err := r.ReadUInt16()
	if err != nil {
		return nil, err
	}
	return &AsyncOpsWindowItem{MaxOpsInvoked: invoked, MaxOpsPerformed: performed}, nil
}

// RoleSelectionItem (0x54): per-abstract-syntax SCU/SCP role proposal or
// response (spec.md §3, §4.4).
type RoleSelectionItem struct {
	SOPClassUID string
	SCURole     bool
	SCPRole     bool
}

func (v *RoleSelectionItem) Write(w *dicomio.Writer) error {
	body, err := encodeBody(binary.BigEndian, func(bw *dicomio.Writer) error {
		if err := bw.WriteUInt16(uint16(len(v.SOPClassUID))); err != nil {
			return err
		}
		if err := bw.WriteString(v.SOPClassUID); err != nil {
			return err
		}
		if err := bw.WriteByte(boolToByte(v.SCURole)); err != nil {
			return err
		}
		return bw.WriteByte(boolToByte(v.SCPRole))
	})
	if err != nil {
		return err
	}
	if err := writeHeader(w, TypeSCPSCURoleSelection, uint16(len(body))); err != nil {
		return err
	}
	return w.WriteBytes(body)
}

func (v *RoleSelectionItem) String() string {
	return fmt.Sprintf("role-selection{sop:%q scu:%v scp:%v}", v.SOPClassUID, v.SCURole, v.SCPRole)
}

func decodeRoleSelectionItem(r *dicomio.Reader, length uint16) (SubItem, error) {
	body, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("item: reading role-selection body: %w", err)
	}
	br := dicomio.NewReader(bytes.NewReader(body), binary.BigEndian, int64(len(body)))
	uidLen, err := br.ReadUInt16()
	if err != nil {
		return nil, err
	}
	sopUID, err := br.ReadString(int(uidLen))
	if err != nil {
		return nil, err
	}
	scu, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	scp, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	return &RoleSelectionItem{SOPClassUID: sopUID, SCURole: scu != 0, SCPRole: scp != 0}, nil
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// SOPClassExtendedItem (0x56): opaque application-information payload
// tied to a SOP class, surfaced verbatim to the extended-negotiation
// intervention hooks (spec.md §3, §9 Open Question (i)).
type SOPClassExtendedItem struct {
	SOPClassUID          string
	ApplicationInformation []byte
}

func (v *SOPClassExtendedItem) Write(w *dicomio.Writer) error {
	body, err := encodeBody(binary.BigEndian, func(bw *dicomio.Writer) error {
		if err := bw.WriteUInt16(uint16(len(v.SOPClassUID))); err != nil {
			return err
		}
		if err := bw.WriteString(v.SOPClassUID); err != nil {
			return err
		}
		return bw.WriteBytes(v.ApplicationInformation)
	})
	if err != nil {
		return err
	}
	if err := writeHeader(w, TypeSOPClassExtendedNegotiation, uint16(len(body))); err != nil {
		return err
	}
	return w.WriteBytes(body)
}

func (v *SOPClassExtendedItem) String() string {
	return fmt.Sprintf("sop-class-extended{sop:%q info:%dB}", v.SOPClassUID, len(v.ApplicationInformation))
}

func decodeSOPClassExtendedItem(r *dicomio.Reader, length uint16) (SubItem, error) {
	body, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	br := dicomio.NewReader(bytes.NewReader(body), binary.BigEndian, int64(len(body)))
	uidLen, err := br.ReadUInt16()
	if err != nil {
		return nil, err
	}
	sopUID, err := br.ReadString(int(uidLen))
	if err != nil {
		return nil, err
	}
	rest, err := br.ReadBytes(int(length) - 2 - int(uidLen))
	if err != nil {
		return nil, err
	}
	return &SOPClassExtendedItem{SOPClassUID: sopUID, ApplicationInformation: rest}, nil
}

// SOPClassCommonExtendedItem (0x57), PS3.7 Annex D.3.3.6.
type SOPClassCommonExtendedItem struct {
	SOPClassUID            string
	ServiceClassUID        string
	RelatedGeneralSOPClassUIDs []string
}

func (v *SOPClassCommonExtendedItem) Write(w *dicomio.Writer) error {
	body, err := encodeBody(binary.BigEndian, func(bw *dicomio.Writer) error {
		if err := bw.WriteUInt16(uint16(len(v.SOPClassUID))); err != nil {
			return err
		}
		if err := bw.WriteString(v.SOPClassUID); err != nil {
			return err
		}
		if err := bw.WriteUInt16(uint16(len(v.ServiceClassUID))); err != nil {
			return err
		}
		if err := bw.WriteString(v.ServiceClassUID); err != nil {
			return err
		}
		var listBuf bytes.Buffer
		for _, rel := range v.RelatedGeneralSOPClassUIDs {
			binary.Write(&listBuf, binary.BigEndian, uint16(len(rel)))
			listBuf.WriteString(rel)
		}
		if err := bw.WriteUInt16(uint16(listBuf.Len())); err != nil {
			return err
		}
		return bw.WriteBytes(listBuf.Bytes())
	})
	if err != nil {
		return err
	}
	if err := writeHeader(w, TypeSOPClassCommonExtendedNegotiation, uint16(len(body))); err != nil {
		return err
	}
	return w.WriteBytes(body)
}

func (v *SOPClassCommonExtendedItem) String() string {
	return fmt.Sprintf("sop-class-common-extended{sop:%q service-class:%q related:%d}",
		v.SOPClassUID, v.ServiceClassUID, len(v.RelatedGeneralSOPClassUIDs))
}

func decodeSOPClassCommonExtendedItem(r *dicomio.Reader, length uint16) (SubItem, error) {
	body, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	br := dicomio.NewReader(bytes.NewReader(body), binary.BigEndian, int64(len(body)))
	sopLen, err := br.ReadUInt16()
	if err != nil {
		return nil, err
	}
	sopUID, err := br.ReadString(int(sopLen))
	if err != nil {
		return nil, err
	}
	svcLen, err := br.ReadUInt16()
	if err != nil {
		return nil, err
	}
	svcUID, err := br.ReadString(int(svcLen))
	if err != nil {
		return nil, err
	}
	listLen, err := br.ReadUInt16()
	if err != nil {
		return nil, err
	}
	listBody, err := br.ReadBytes(int(listLen))
	if err != nil {
		return nil, err
	}
	lr := dicomio.NewReader(bytes.NewReader(listBody), binary.BigEndian, int64(len(listBody)))
	var related []string
	for !lr.IsLimitExhausted() {
		n, err := lr.ReadUInt16()
		if err != nil {
			return nil, err
		}
		s, err := lr.ReadString(int(n))
		if err != nil {
			return nil, err
		}
		related = append(related, s)
	}
	return &SOPClassCommonExtendedItem{SOPClassUID: sopUID, ServiceClassUID: svcUID, RelatedGeneralSOPClassUIDs: related}, nil
}

// UserIdentityType enumerates the identity types named in spec.md §3.
type UserIdentityType byte

const (
	UserIdentityUsername           UserIdentityType = 1
	UserIdentityUsernamePassword   UserIdentityType = 2
	UserIdentityKerberos           UserIdentityType = 3
	UserIdentitySAML               UserIdentityType = 4
	UserIdentityJWT                UserIdentityType = 5
)

// UserIdentityRequestItem (0x58).
type UserIdentityRequestItem struct {
	Type                   UserIdentityType
	PositiveResponseRequested bool
	PrimaryField           []byte
	SecondaryField         []byte // only meaningful for UsernamePassword
}

func (v *UserIdentityRequestItem) Write(w *dicomio.Writer) error {
	body, err := encodeBody(binary.BigEndian, func(bw *dicomio.Writer) error {
		if err := bw.WriteByte(byte(v.Type)); err != nil {
			return err
		}
		if err := bw.WriteByte(boolToByte(v.PositiveResponseRequested)); err != nil {
			return err
		}
		if err := bw.WriteUInt16(uint16(len(v.PrimaryField))); err != nil {
			return err
		}
		if err := bw.WriteBytes(v.PrimaryField); err != nil {
			return err
		}
		if err := bw.WriteUInt16(uint16(len(v.SecondaryField))); err != nil {
			return err
		}
		return bw.WriteBytes(v.SecondaryField)
	})
	if err != nil {
		return err
	}
	if err := writeHeader(w, TypeUserIdentityRequest, uint16(len(body))); err != nil {
		return err
	}
	return w.WriteBytes(body)
}

func (v *UserIdentityRequestItem) String() string {
	return fmt.Sprintf("user-identity-rq{type:%d positive-response:%v primary:%dB secondary:%dB}",
		v.Type, v.PositiveResponseRequested, len(v.PrimaryField), len(v.SecondaryField))
}

func decodeUserIdentityRequestItem(r *dicomio.Reader, length uint16) (SubItem, error) {
	body, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	br := dicomio.NewReader(bytes.NewReader(body), binary.BigEndian, int64(len(body)))
	typ, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	positive, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	primaryLen, err := br.ReadUInt16()
	if err != nil {
		return nil, err
	}
	primary, err := br.ReadBytes(int(primaryLen))
	if err != nil {
		return nil, err
	}
	secondaryLen, err := br.ReadUInt16()
	if err != nil {
		return nil, err
	}
	secondary, err := br.ReadBytes(int(secondaryLen))
	if err != nil {
		return nil, err
	}
	return &UserIdentityRequestItem{
		Type:                      UserIdentityType(typ),
		PositiveResponseRequested: positive != 0,
		PrimaryField:              primary,
		SecondaryField:            secondary,
	}, nil
}

// UserIdentityResponseItem (0x59). ServerResponse is opaque per spec.md
// §9 Open Question (i); the engine never interprets it.
type UserIdentityResponseItem struct {
	ServerResponse []byte
}

func (v *UserIdentityResponseItem) Write(w *dicomio.Writer) error {
	body, err := encodeBody(binary.BigEndian, func(bw *dicomio.Writer) error {
		if err := bw.WriteUInt16(uint16(len(v.ServerResponse))); err != nil {
			return err
		}
		return bw.WriteBytes(v.ServerResponse)
	})
	if err != nil {
		return err
	}
	if err := writeHeader(w, TypeUserIdentityResponse, uint16(len(body))); err != nil {
		return err
	}
	return w.WriteBytes(body)
}

func (v *UserIdentityResponseItem) String() string {
	return fmt.Sprintf("user-identity-ac{response:%dB}", len(v.ServerResponse))
}

func decodeUserIdentityResponseItem(r *dicomio.Reader, length uint16) (SubItem, error) {
	body, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	br := dicomio.NewReader(bytes.NewReader(body), binary.BigEndian, int64(len(body)))
	n, err := br.ReadUInt16()
	if err != nil {
		return nil, err
	}
	resp, err := br.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	return &UserIdentityResponseItem{ServerResponse: resp}, nil
}
