package dimse

import (
	"fmt"
	"io"

	"github.com/dulengine/dul/dimse/commandset"
	"github.com/suyashkumar/dicom"
)

// NEventReportRq notifies an SCU that an event occurred on an SOP
// instance; Extra carries the Event Information data set (DICOM PS3.7
// §10.1.1).
type NEventReportRq struct {
	AffectedSOPClassUID    string
	AffectedSOPInstanceUID string
	MessageID              MessageID
	EventTypeID            uint16
	CommandDataSetType     CommandDataSetType
	Extra                  []*dicom.Element // Unparsed elements
}

func (v *NEventReportRq) Encode(e io.Writer) error {
	elems := []*dicom.Element{}

	elem, err := NewElement(commandset.CommandField, v.CommandField())
	if err != nil {
		return fmt.Errorf("NEventReportRq.Encode: failed to create CommandField element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.AffectedSOPClassUID, v.AffectedSOPClassUID)
	if err != nil {
		return fmt.Errorf("NEventReportRq.Encode: failed to create AffectedSOPClassUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.AffectedSOPInstanceUID, v.AffectedSOPInstanceUID)
	if err != nil {
		return fmt.Errorf("NEventReportRq.Encode: failed to create AffectedSOPInstanceUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.MessageID, v.MessageID)
	if err != nil {
		return fmt.Errorf("NEventReportRq.Encode: failed to create MessageID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.EventTypeID, v.EventTypeID)
	if err != nil {
		return fmt.Errorf("NEventReportRq.Encode: failed to create EventTypeID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.CommandDataSetType, uint16(v.CommandDataSetType))
	if err != nil {
		return fmt.Errorf("NEventReportRq.Encode: failed to create CommandDataSetType element: %w", err)
	}
	elems = append(elems, elem)

	elems = append(elems, v.Extra...)

	if err := EncodeElements(e, elems); err != nil {
		return fmt.Errorf("NEventReportRq.Encode: failed to encode elements: %w", err)
	}
	return nil
}

func (v *NEventReportRq) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

func (v *NEventReportRq) CommandField() uint16 {
	return CommandFieldNEventReportRq
}

func (v *NEventReportRq) GetMessageID() MessageID {
	return v.MessageID
}

func (v *NEventReportRq) GetStatus() *Status {
	return nil
}

func (v *NEventReportRq) String() string {
	return fmt.Sprintf("NEventReportRq{AffectedSOPClassUID:%v AffectedSOPInstanceUID:%v MessageID:%v EventTypeID:%v CommandDataSetType:%v}}", v.AffectedSOPClassUID, v.AffectedSOPInstanceUID, v.MessageID, v.EventTypeID, v.CommandDataSetType)
}

func (NEventReportRq) decode(d *MessageDecoder) (*NEventReportRq, error) {
	v := &NEventReportRq{}
	var err error

	v.AffectedSOPClassUID, err = d.GetString(commandset.AffectedSOPClassUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nEventReportRq.decode: failed to decode AffectedSOPClassUID: %w", err)
	}

	v.AffectedSOPInstanceUID, err = d.GetString(commandset.AffectedSOPInstanceUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nEventReportRq.decode: failed to decode AffectedSOPInstanceUID: %w", err)
	}

	v.MessageID, err = d.GetUInt16(commandset.MessageID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nEventReportRq.decode: failed to decode MessageID: %w", err)
	}

	v.EventTypeID, err = d.GetUInt16(commandset.EventTypeID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nEventReportRq.decode: failed to decode EventTypeID: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("nEventReportRq.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}

// NEventReportRsp acknowledges an NEventReportRq (DICOM PS3.7 §10.1.2).
type NEventReportRsp struct {
	AffectedSOPClassUID        string
	AffectedSOPInstanceUID     string
	MessageIDBeingRespondedTo  MessageID
	EventTypeID                uint16
	CommandDataSetType         CommandDataSetType
	Status                     Status
	Extra                      []*dicom.Element // Unparsed elements
}

func (v *NEventReportRsp) Encode(e io.Writer) error {
	elems := []*dicom.Element{}

	elem, err := NewElement(commandset.CommandField, v.CommandField())
	if err != nil {
		return fmt.Errorf("NEventReportRsp.Encode: failed to create CommandField element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.AffectedSOPClassUID, v.AffectedSOPClassUID)
	if err != nil {
		return fmt.Errorf("NEventReportRsp.Encode: failed to create AffectedSOPClassUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.AffectedSOPInstanceUID, v.AffectedSOPInstanceUID)
	if err != nil {
		return fmt.Errorf("NEventReportRsp.Encode: failed to create AffectedSOPInstanceUID element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.MessageIDBeingRespondedTo, v.MessageIDBeingRespondedTo)
	if err != nil {
		return fmt.Errorf("NEventReportRsp.Encode: failed to create MessageIDBeingRespondedTo element: %w", err)
	}
	elems = append(elems, elem)

	if v.EventTypeID != 0 {
		elem, err = NewElement(commandset.EventTypeID, v.EventTypeID)
		if err != nil {
			return fmt.Errorf("NEventReportRsp.Encode: failed to create EventTypeID element: %w", err)
		}
		elems = append(elems, elem)
	}

	elem, err = NewElement(commandset.CommandDataSetType, uint16(v.CommandDataSetType))
	if err != nil {
		return fmt.Errorf("NEventReportRsp.Encode: failed to create CommandDataSetType element: %w", err)
	}
	elems = append(elems, elem)

	statusElems, err := v.Status.ToElements()
	if err != nil {
		return fmt.Errorf("NEventReportRsp.Encode: failed to create Status elements: %w", err)
	}
	elems = append(elems, statusElems...)

	elems = append(elems, v.Extra...)

	if err := EncodeElements(e, elems); err != nil {
		return fmt.Errorf("NEventReportRsp.Encode: failed to encode elements: %w", err)
	}
	return nil
}

func (v *NEventReportRsp) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

func (v *NEventReportRsp) CommandField() uint16 {
	return CommandFieldNEventReportRsp
}

func (v *NEventReportRsp) GetMessageID() MessageID {
	return v.MessageIDBeingRespondedTo
}

func (v *NEventReportRsp) GetStatus() *Status {
	return &v.Status
}

func (v *NEventReportRsp) String() string {
	return fmt.Sprintf("NEventReportRsp{AffectedSOPClassUID:%v AffectedSOPInstanceUID:%v MessageIDBeingRespondedTo:%v EventTypeID:%v CommandDataSetType:%v Status:%v}}", v.AffectedSOPClassUID, v.AffectedSOPInstanceUID, v.MessageIDBeingRespondedTo, v.EventTypeID, v.CommandDataSetType, v.Status)
}

func (NEventReportRsp) decode(d *MessageDecoder) (*NEventReportRsp, error) {
	v := &NEventReportRsp{}
	var err error

	v.AffectedSOPClassUID, err = d.GetString(commandset.AffectedSOPClassUID, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("nEventReportRsp.decode: failed to decode AffectedSOPClassUID: %w", err)
	}

	v.AffectedSOPInstanceUID, err = d.GetString(commandset.AffectedSOPInstanceUID, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("nEventReportRsp.decode: failed to decode AffectedSOPInstanceUID: %w", err)
	}

	v.MessageIDBeingRespondedTo, err = d.GetUInt16(commandset.MessageIDBeingRespondedTo, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("nEventReportRsp.decode: failed to decode MessageIDBeingRespondedTo: %w", err)
	}

	v.EventTypeID, err = d.GetUInt16(commandset.EventTypeID, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("nEventReportRsp.decode: failed to decode EventTypeID: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("nEventReportRsp.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.Status, err = d.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("nEventReportRsp.decode: failed to decode Status: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}
