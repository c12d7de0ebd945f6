package dimse

import (
	"fmt"
	"io"

	"github.com/dulengine/dul/dimse/commandset"
	"github.com/suyashkumar/dicom"
)

// CMoveRsp is a C-MOVE-RSP command set. A C-MOVE exchange sends one of
// these per completed/failed sub-operation (status Pending, Counts
// decrementing Remaining) followed by a final non-Pending response.
type CMoveRsp struct {
	AffectedSOPClassUID       string
	MessageIDBeingRespondedTo MessageID
	CommandDataSetType        CommandDataSetType
	Counts                    SuboperationCounts
	Status                    Status
	Extra                     []*dicom.Element // Unparsed elements
}

func (v *CMoveRsp) Encode(e io.Writer) error {
	elems, err := (&commandBuilder{}).
		field(commandset.CommandField, v.CommandField()).
		field(commandset.AffectedSOPClassUID, v.AffectedSOPClassUID).
		field(commandset.MessageIDBeingRespondedTo, v.MessageIDBeingRespondedTo).
		field(commandset.CommandDataSetType, uint16(v.CommandDataSetType)).
		suboperationCounts(v.Counts).
		status(&v.Status).
		finish(v.Extra)
	if err != nil {
		return fmt.Errorf("CMoveRsp.Encode: %w", err)
	}
	return EncodeElements(e, elems)
}

func (v *CMoveRsp) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

func (v *CMoveRsp) CommandField() uint16 {
	return CommandFieldCMoveRsp
}

func (v *CMoveRsp) GetMessageID() MessageID {
	return v.MessageIDBeingRespondedTo
}

func (v *CMoveRsp) GetStatus() *Status {
	return &v.Status
}

func (v *CMoveRsp) String() string {
	return fmt.Sprintf("CMoveRsp{AffectedSOPClassUID:%v MessageIDBeingRespondedTo:%v CommandDataSetType:%v Counts:%+v Status:%v}}", v.AffectedSOPClassUID, v.MessageIDBeingRespondedTo, v.CommandDataSetType, v.Counts, v.Status)
}

func (CMoveRsp) decode(d *MessageDecoder) (*CMoveRsp, error) {
	v := &CMoveRsp{}
	var err error

	v.AffectedSOPClassUID, err = d.GetString(commandset.AffectedSOPClassUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CMoveRsp.decode: failed to decode AffectedSOPClassUID: %w", err)
	}

	v.MessageIDBeingRespondedTo, err = d.GetUInt16(commandset.MessageIDBeingRespondedTo, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CMoveRsp.decode: failed to decode MessageIDBeingRespondedTo: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("CMoveRsp.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.Counts, err = decodeSuboperationCounts(d)
	if err != nil {
		return nil, fmt.Errorf("CMoveRsp.decode: %w", err)
	}

	v.Status, err = d.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("CMoveRsp.decode: failed to decode Status: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}
