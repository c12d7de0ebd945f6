package dimse

import (
	"fmt"
	"io"

	"github.com/dulengine/dul/dimse/commandset"
	"github.com/suyashkumar/dicom"
)

// NDeleteRq deletes an SOP instance; it never carries a data set (DICOM
// PS3.7 §10.1.11).
type NDeleteRq struct {
	RequestedSOPClassUID    string
	RequestedSOPInstanceUID string
	MessageID               MessageID
}

func (v *NDeleteRq) Encode(e io.Writer) error {
	elems := []*dicom.Element{}

	elem, err := NewElement(commandset.CommandField, v.CommandField())
	if err != nil {
		return fmt.Errorf("NDeleteRq.Encode: failed to create CommandField element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.RequestedSOPClassUID, v.RequestedSOPClassUID)
	if err != nil {
		return fmt.Errorf("NDeleteRq.Encode: failed to create RequestedSOPClassUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.RequestedSOPInstanceUID, v.RequestedSOPInstanceUID)
	if err != nil {
		return fmt.Errorf("NDeleteRq.Encode: failed to create RequestedSOPInstanceUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.MessageID, v.MessageID)
	if err != nil {
		return fmt.Errorf("NDeleteRq.Encode: failed to create MessageID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.CommandDataSetType, uint16(CommandDataSetTypeNull))
	if err != nil {
		return fmt.Errorf("NDeleteRq.Encode: failed to create CommandDataSetType element: %w", err)
	}
	elems = append(elems, elem)

	if err := EncodeElements(e, elems); err != nil {
		return fmt.Errorf("NDeleteRq.Encode: failed to encode elements: %w", err)
	}
	return nil
}

func (v *NDeleteRq) HasData() bool {
	return false
}

func (v *NDeleteRq) CommandField() uint16 {
	return CommandFieldNDeleteRq
}

func (v *NDeleteRq) GetMessageID() MessageID {
	return v.MessageID
}

func (v *NDeleteRq) GetStatus() *Status {
	return nil
}

func (v *NDeleteRq) String() string {
	return fmt.Sprintf("NDeleteRq{RequestedSOPClassUID:%v RequestedSOPInstanceUID:%v MessageID:%v}}", v.RequestedSOPClassUID, v.RequestedSOPInstanceUID, v.MessageID)
}

func (NDeleteRq) decode(d *MessageDecoder) (*NDeleteRq, error) {
	v := &NDeleteRq{}
	var err error

	v.RequestedSOPClassUID, err = d.GetString(commandset.RequestedSOPClassUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nDeleteRq.decode: failed to decode RequestedSOPClassUID: %w", err)
	}

	v.RequestedSOPInstanceUID, err = d.GetString(commandset.RequestedSOPInstanceUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nDeleteRq.decode: failed to decode RequestedSOPInstanceUID: %w", err)
	}

	v.MessageID, err = d.GetUInt16(commandset.MessageID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nDeleteRq.decode: failed to decode MessageID: %w", err)
	}

	if _, err := d.GetCommandDataSetType(); err != nil {
		return nil, fmt.Errorf("nDeleteRq.decode: failed to decode CommandDataSetType: %w", err)
	}

	return v, nil
}

// NDeleteRsp acknowledges deletion (DICOM PS3.7 §10.1.12).
type NDeleteRsp struct {
	AffectedSOPClassUID       string
	AffectedSOPInstanceUID    string
	MessageIDBeingRespondedTo MessageID
	Status                    Status
	Extra                     []*dicom.Element // Unparsed elements
}

func (v *NDeleteRsp) Encode(e io.Writer) error {
	elems := []*dicom.Element{}

	elem, err := NewElement(commandset.CommandField, v.CommandField())
	if err != nil {
		return fmt.Errorf("NDeleteRsp.Encode: failed to create CommandField element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.AffectedSOPClassUID, v.AffectedSOPClassUID)
	if err != nil {
		return fmt.Errorf("NDeleteRsp.Encode: failed to create AffectedSOPClassUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.AffectedSOPInstanceUID, v.AffectedSOPInstanceUID)
	if err != nil {
		return fmt.Errorf("NDeleteRsp.Encode: failed to create AffectedSOPInstanceUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.MessageIDBeingRespondedTo, v.MessageIDBeingRespondedTo)
	if err != nil {
		return fmt.Errorf("NDeleteRsp.Encode: failed to create MessageIDBeingRespondedTo element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.CommandDataSetType, uint16(CommandDataSetTypeNull))
	if err != nil {
		return fmt.Errorf("NDeleteRsp.Encode: failed to create CommandDataSetType element: %w", err)
	}
	elems = append(elems, elem)

	statusElems, err := v.Status.ToElements()
	if err != nil {
		return fmt.Errorf("NDeleteRsp.Encode: failed to create Status elements: %w", err)
	}
	elems = append(elems, statusElems...)

	elems = append(elems, v.Extra...)

	if err := EncodeElements(e, elems); err != nil {
		return fmt.Errorf("NDeleteRsp.Encode: failed to encode elements: %w", err)
	}
	return nil
}

func (v *NDeleteRsp) HasData() bool {
	return false
}

func (v *NDeleteRsp) CommandField() uint16 {
	return CommandFieldNDeleteRsp
}

func (v *NDeleteRsp) GetMessageID() MessageID {
	return v.MessageIDBeingRespondedTo
}

func (v *NDeleteRsp) GetStatus() *Status {
	return &v.Status
}

func (v *NDeleteRsp) String() string {
	return fmt.Sprintf("NDeleteRsp{AffectedSOPClassUID:%v AffectedSOPInstanceUID:%v MessageIDBeingRespondedTo:%v Status:%v}}", v.AffectedSOPClassUID, v.AffectedSOPInstanceUID, v.MessageIDBeingRespondedTo, v.Status)
}

func (NDeleteRsp) decode(d *MessageDecoder) (*NDeleteRsp, error) {
	v := &NDeleteRsp{}
	var err error

	v.AffectedSOPClassUID, err = d.GetString(commandset.AffectedSOPClassUID, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("nDeleteRsp.decode: failed to decode AffectedSOPClassUID: %w", err)
	}

	v.AffectedSOPInstanceUID, err = d.GetString(commandset.AffectedSOPInstanceUID, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("nDeleteRsp.decode: failed to decode AffectedSOPInstanceUID: %w", err)
	}

	v.MessageIDBeingRespondedTo, err = d.GetUInt16(commandset.MessageIDBeingRespondedTo, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nDeleteRsp.decode: failed to decode MessageIDBeingRespondedTo: %w", err)
	}

	if _, err := d.GetCommandDataSetType(); err != nil {
		return nil, fmt.Errorf("nDeleteRsp.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.Status, err = d.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("nDeleteRsp.decode: failed to decode Status: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}
