package dimse

import (
	"fmt"
	"io"

	"github.com/dulengine/dul/dimse/commandset"
	"github.com/suyashkumar/dicom"
)

// CMoveRq is a C-MOVE-RQ command set (DICOM PS3.7 §9.3.4): a request to
// retrieve matching instances by issuing one C-STORE sub-operation per
// instance to MoveDestination, an AE title the acceptor must already
// know how to reach.
type CMoveRq struct {
	AffectedSOPClassUID string
	MessageID           MessageID
	Priority            uint16
	MoveDestination     string
	CommandDataSetType  CommandDataSetType
	Extra               []*dicom.Element // Unparsed elements
}

func (v *CMoveRq) Encode(e io.Writer) error {
	elems, err := (&commandBuilder{}).
		field(commandset.CommandField, v.CommandField()).
		field(commandset.AffectedSOPClassUID, v.AffectedSOPClassUID).
		field(commandset.MessageID, v.MessageID).
		field(commandset.Priority, v.Priority).
		field(commandset.MoveDestination, v.MoveDestination).
		field(commandset.CommandDataSetType, uint16(v.CommandDataSetType)).
		finish(v.Extra)
	if err != nil {
		return fmt.Errorf("CMoveRq.Encode: %w", err)
	}
	return EncodeElements(e, elems)
}

func (v *CMoveRq) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

func (v *CMoveRq) CommandField() uint16 {
	return CommandFieldCMoveRq
}

func (v *CMoveRq) GetMessageID() MessageID {
	return v.MessageID
}

func (v *CMoveRq) GetStatus() *Status {
	return nil
}

func (v *CMoveRq) String() string {
	return fmt.Sprintf("CMoveRq{AffectedSOPClassUID:%v MessageID:%v Priority:%v MoveDestination:%v CommandDataSetType:%v}}", v.AffectedSOPClassUID, v.MessageID, v.Priority, v.MoveDestination, v.CommandDataSetType)
}

func (CMoveRq) decode(d *MessageDecoder) (*CMoveRq, error) {
	v := &CMoveRq{}
	var err error

	v.AffectedSOPClassUID, err = d.GetString(commandset.AffectedSOPClassUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CMoveRq.decode: failed to decode AffectedSOPClassUID: %w", err)
	}

	v.MessageID, err = d.GetUInt16(commandset.MessageID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CMoveRq.decode: failed to decode MessageID: %w", err)
	}

	v.Priority, err = d.GetUInt16(commandset.Priority, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CMoveRq.decode: failed to decode Priority: %w", err)
	}

	v.MoveDestination, err = d.GetString(commandset.MoveDestination, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CMoveRq.decode: failed to decode MoveDestination: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("CMoveRq.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}
