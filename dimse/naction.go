package dimse

import (
	"fmt"
	"io"

	"github.com/dulengine/dul/dimse/commandset"
	"github.com/suyashkumar/dicom"
)

// NActionRq invokes an action on an SOP instance; Extra carries the
// Action Information data set (DICOM PS3.7 §10.1.7).
type NActionRq struct {
	RequestedSOPClassUID    string
	RequestedSOPInstanceUID string
	MessageID               MessageID
	ActionTypeID            uint16
	CommandDataSetType      CommandDataSetType
	Extra                   []*dicom.Element // Unparsed elements, incl. Action Information
}

func (v *NActionRq) Encode(e io.Writer) error {
	elems := []*dicom.Element{}

	elem, err := NewElement(commandset.CommandField, v.CommandField())
	if err != nil {
		return fmt.Errorf("NActionRq.Encode: failed to create CommandField element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.RequestedSOPClassUID, v.RequestedSOPClassUID)
	if err != nil {
		return fmt.Errorf("NActionRq.Encode: failed to create RequestedSOPClassUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.RequestedSOPInstanceUID, v.RequestedSOPInstanceUID)
	if err != nil {
		return fmt.Errorf("NActionRq.Encode: failed to create RequestedSOPInstanceUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.MessageID, v.MessageID)
	if err != nil {
		return fmt.Errorf("NActionRq.Encode: failed to create MessageID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.ActionTypeID, v.ActionTypeID)
	if err != nil {
		return fmt.Errorf("NActionRq.Encode: failed to create ActionTypeID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.CommandDataSetType, uint16(v.CommandDataSetType))
	if err != nil {
		return fmt.Errorf("NActionRq.Encode: failed to create CommandDataSetType element: %w", err)
	}
	elems = append(elems, elem)

	elems = append(elems, v.Extra...)

	if err := EncodeElements(e, elems); err != nil {
		return fmt.Errorf("NActionRq.Encode: failed to encode elements: %w", err)
	}
	return nil
}

func (v *NActionRq) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

func (v *NActionRq) CommandField() uint16 {
	return CommandFieldNActionRq
}

func (v *NActionRq) GetMessageID() MessageID {
	return v.MessageID
}

func (v *NActionRq) GetStatus() *Status {
	return nil
}

func (v *NActionRq) String() string {
	return fmt.Sprintf("NActionRq{RequestedSOPClassUID:%v RequestedSOPInstanceUID:%v MessageID:%v ActionTypeID:%v CommandDataSetType:%v}}", v.RequestedSOPClassUID, v.RequestedSOPInstanceUID, v.MessageID, v.ActionTypeID, v.CommandDataSetType)
}

func (NActionRq) decode(d *MessageDecoder) (*NActionRq, error) {
	v := &NActionRq{}
	var err error

	v.RequestedSOPClassUID, err = d.GetString(commandset.RequestedSOPClassUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nActionRq.decode: failed to decode RequestedSOPClassUID: %w", err)
	}

	v.RequestedSOPInstanceUID, err = d.GetString(commandset.RequestedSOPInstanceUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nActionRq.decode: failed to decode RequestedSOPInstanceUID: %w", err)
	}

	v.MessageID, err = d.GetUInt16(commandset.MessageID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nActionRq.decode: failed to decode MessageID: %w", err)
	}

	v.ActionTypeID, err = d.GetUInt16(commandset.ActionTypeID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nActionRq.decode: failed to decode ActionTypeID: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("nActionRq.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}

// NActionRsp carries the Action Reply data set in Extra, if any (DICOM
// PS3.7 §10.1.8).
type NActionRsp struct {
	AffectedSOPClassUID       string
	AffectedSOPInstanceUID    string
	MessageIDBeingRespondedTo MessageID
	ActionTypeID              uint16
	CommandDataSetType        CommandDataSetType
	Status                    Status
	Extra                     []*dicom.Element // Unparsed elements
}

func (v *NActionRsp) Encode(e io.Writer) error {
	elems := []*dicom.Element{}

	elem, err := NewElement(commandset.CommandField, v.CommandField())
	if err != nil {
		return fmt.Errorf("NActionRsp.Encode: failed to create CommandField element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.AffectedSOPClassUID, v.AffectedSOPClassUID)
	if err != nil {
		return fmt.Errorf("NActionRsp.Encode: failed to create AffectedSOPClassUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.AffectedSOPInstanceUID, v.AffectedSOPInstanceUID)
	if err != nil {
		return fmt.Errorf("NActionRsp.Encode: failed to create AffectedSOPInstanceUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.MessageIDBeingRespondedTo, v.MessageIDBeingRespondedTo)
	if err != nil {
		return fmt.Errorf("NActionRsp.Encode: failed to create MessageIDBeingRespondedTo element: %w", err)
	}
	elems = append(elems, elem)

	if v.ActionTypeID != 0 {
		elem, err = NewElement(commandset.ActionTypeID, v.ActionTypeID)
		if err != nil {
			return fmt.Errorf("NActionRsp.Encode: failed to create ActionTypeID element: %w", err)
		}
		elems = append(elems, elem)
	}

	elem, err = NewElement(commandset.CommandDataSetType, uint16(v.CommandDataSetType))
	if err != nil {
		return fmt.Errorf("NActionRsp.Encode: failed to create CommandDataSetType element: %w", err)
	}
	elems = append(elems, elem)

	statusElems, err := v.Status.ToElements()
	if err != nil {
		return fmt.Errorf("NActionRsp.Encode: failed to create Status elements: %w", err)
	}
	elems = append(elems, statusElems...)

	elems = append(elems, v.Extra...)

	if err := EncodeElements(e, elems); err != nil {
		return fmt.Errorf("NActionRsp.Encode: failed to encode elements: %w", err)
	}
	return nil
}

func (v *NActionRsp) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

func (v *NActionRsp) CommandField() uint16 {
	return CommandFieldNActionRsp
}

func (v *NActionRsp) GetMessageID() MessageID {
	return v.MessageIDBeingRespondedTo
}

func (v *NActionRsp) GetStatus() *Status {
	return &v.Status
}

func (v *NActionRsp) String() string {
	return fmt.Sprintf("NActionRsp{AffectedSOPClassUID:%v AffectedSOPInstanceUID:%v MessageIDBeingRespondedTo:%v ActionTypeID:%v CommandDataSetType:%v Status:%v}}", v.AffectedSOPClassUID, v.AffectedSOPInstanceUID, v.MessageIDBeingRespondedTo, v.ActionTypeID, v.CommandDataSetType, v.Status)
}

func (NActionRsp) decode(d *MessageDecoder) (*NActionRsp, error) {
	v := &NActionRsp{}
	var err error

	v.AffectedSOPClassUID, err = d.GetString(commandset.AffectedSOPClassUID, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("nActionRsp.decode: failed to decode AffectedSOPClassUID: %w", err)
	}

	v.AffectedSOPInstanceUID, err = d.GetString(commandset.AffectedSOPInstanceUID, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("nActionRsp.decode: failed to decode AffectedSOPInstanceUID: %w", err)
	}

	v.MessageIDBeingRespondedTo, err = d.GetUInt16(commandset.MessageIDBeingRespondedTo, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nActionRsp.decode: failed to decode MessageIDBeingRespondedTo: %w", err)
	}

	v.ActionTypeID, err = d.GetUInt16(commandset.ActionTypeID, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("nActionRsp.decode: failed to decode ActionTypeID: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("nActionRsp.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.Status, err = d.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("nActionRsp.decode: failed to decode Status: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}
