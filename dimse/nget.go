package dimse

import (
	"fmt"
	"io"

	"github.com/dulengine/dul/dimse/commandset"
	"github.com/suyashkumar/dicom"
)

// NGetRq requests the value of one or more attributes of an SOP instance.
// The attribute identifier list (DICOM PS3.7 §10.1.3) is not parsed by this
// engine; callers set it directly as an Extra element.
type NGetRq struct {
	RequestedSOPClassUID    string
	RequestedSOPInstanceUID string
	MessageID               MessageID
	CommandDataSetType      CommandDataSetType
	Extra                   []*dicom.Element // Unparsed elements, incl. Attribute Identifier List
}

func (v *NGetRq) Encode(e io.Writer) error {
	elems := []*dicom.Element{}

	elem, err := NewElement(commandset.CommandField, v.CommandField())
	if err != nil {
		return fmt.Errorf("NGetRq.Encode: failed to create CommandField element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.RequestedSOPClassUID, v.RequestedSOPClassUID)
	if err != nil {
		return fmt.Errorf("NGetRq.Encode: failed to create RequestedSOPClassUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.RequestedSOPInstanceUID, v.RequestedSOPInstanceUID)
	if err != nil {
		return fmt.Errorf("NGetRq.Encode: failed to create RequestedSOPInstanceUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.MessageID, v.MessageID)
	if err != nil {
		return fmt.Errorf("NGetRq.Encode: failed to create MessageID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.CommandDataSetType, uint16(v.CommandDataSetType))
	if err != nil {
		return fmt.Errorf("NGetRq.Encode: failed to create CommandDataSetType element: %w", err)
	}
	elems = append(elems, elem)

	elems = append(elems, v.Extra...)

	if err := EncodeElements(e, elems); err != nil {
		return fmt.Errorf("NGetRq.Encode: failed to encode elements: %w", err)
	}
	return nil
}

func (v *NGetRq) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

func (v *NGetRq) CommandField() uint16 {
	return CommandFieldNGetRq
}

func (v *NGetRq) GetMessageID() MessageID {
	return v.MessageID
}

func (v *NGetRq) GetStatus() *Status {
	return nil
}

func (v *NGetRq) String() string {
	return fmt.Sprintf("NGetRq{RequestedSOPClassUID:%v RequestedSOPInstanceUID:%v MessageID:%v CommandDataSetType:%v}}", v.RequestedSOPClassUID, v.RequestedSOPInstanceUID, v.MessageID, v.CommandDataSetType)
}

func (NGetRq) decode(d *MessageDecoder) (*NGetRq, error) {
	v := &NGetRq{}
	var err error

	v.RequestedSOPClassUID, err = d.GetString(commandset.RequestedSOPClassUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nGetRq.decode: failed to decode RequestedSOPClassUID: %w", err)
	}

	v.RequestedSOPInstanceUID, err = d.GetString(commandset.RequestedSOPInstanceUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nGetRq.decode: failed to decode RequestedSOPInstanceUID: %w", err)
	}

	v.MessageID, err = d.GetUInt16(commandset.MessageID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nGetRq.decode: failed to decode MessageID: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("nGetRq.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}

// NGetRsp carries the requested attribute values in Extra as an Attribute
// List data set (DICOM PS3.7 §10.1.4).
type NGetRsp struct {
	AffectedSOPClassUID       string
	AffectedSOPInstanceUID    string
	MessageIDBeingRespondedTo MessageID
	CommandDataSetType        CommandDataSetType
	Status                    Status
	Extra                     []*dicom.Element // Unparsed elements, incl. Attribute List
}

func (v *NGetRsp) Encode(e io.Writer) error {
	elems := []*dicom.Element{}

	elem, err := NewElement(commandset.CommandField, v.CommandField())
	if err != nil {
		return fmt.Errorf("NGetRsp.Encode: failed to create CommandField element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.AffectedSOPClassUID, v.AffectedSOPClassUID)
	if err != nil {
		return fmt.Errorf("NGetRsp.Encode: failed to create AffectedSOPClassUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.AffectedSOPInstanceUID, v.AffectedSOPInstanceUID)
	if err != nil {
		return fmt.Errorf("NGetRsp.Encode: failed to create AffectedSOPInstanceUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.MessageIDBeingRespondedTo, v.MessageIDBeingRespondedTo)
	if err != nil {
		return fmt.Errorf("NGetRsp.Encode: failed to create MessageIDBeingRespondedTo element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.CommandDataSetType, uint16(v.CommandDataSetType))
	if err != nil {
		return fmt.Errorf("NGetRsp.Encode: failed to create CommandDataSetType element: %w", err)
	}
	elems = append(elems, elem)

	statusElems, err := v.Status.ToElements()
	if err != nil {
		return fmt.Errorf("NGetRsp.Encode: failed to create Status elements: %w", err)
	}
	elems = append(elems, statusElems...)

	elems = append(elems, v.Extra...)

	if err := EncodeElements(e, elems); err != nil {
		return fmt.Errorf("NGetRsp.Encode: failed to encode elements: %w", err)
	}
	return nil
}

func (v *NGetRsp) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

func (v *NGetRsp) CommandField() uint16 {
	return CommandFieldNGetRsp
}

func (v *NGetRsp) GetMessageID() MessageID {
	return v.MessageIDBeingRespondedTo
}

func (v *NGetRsp) GetStatus() *Status {
	return &v.Status
}

func (v *NGetRsp) String() string {
	return fmt.Sprintf("NGetRsp{AffectedSOPClassUID:%v AffectedSOPInstanceUID:%v MessageIDBeingRespondedTo:%v CommandDataSetType:%v Status:%v}}", v.AffectedSOPClassUID, v.AffectedSOPInstanceUID, v.MessageIDBeingRespondedTo, v.CommandDataSetType, v.Status)
}

func (NGetRsp) decode(d *MessageDecoder) (*NGetRsp, error) {
	v := &NGetRsp{}
	var err error

	v.AffectedSOPClassUID, err = d.GetString(commandset.AffectedSOPClassUID, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("nGetRsp.decode: failed to decode AffectedSOPClassUID: %w", err)
	}

	v.AffectedSOPInstanceUID, err = d.GetString(commandset.AffectedSOPInstanceUID, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("nGetRsp.decode: failed to decode AffectedSOPInstanceUID: %w", err)
	}

	v.MessageIDBeingRespondedTo, err = d.GetUInt16(commandset.MessageIDBeingRespondedTo, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nGetRsp.decode: failed to decode MessageIDBeingRespondedTo: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("nGetRsp.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.Status, err = d.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("nGetRsp.decode: failed to decode Status: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}
