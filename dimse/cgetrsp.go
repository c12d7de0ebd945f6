package dimse

import (
	"fmt"
	"io"

	"github.com/dulengine/dul/dimse/commandset"
	"github.com/suyashkumar/dicom"
)

// CGetRsp is a C-GET-RSP command set. Unlike C-MOVE, the retrieved
// instances travel as C-STORE sub-operations over the *same*
// association, so a C-GET SCU must also run a C-STORE SCP role on its
// accepted contexts for the duration of the exchange.
type CGetRsp struct {
	AffectedSOPClassUID       string
	MessageIDBeingRespondedTo MessageID
	CommandDataSetType        CommandDataSetType
	Counts                    SuboperationCounts
	Status                    Status
	Extra                     []*dicom.Element // Unparsed elements
}

func (v *CGetRsp) Encode(e io.Writer) error {
	elems, err := (&commandBuilder{}).
		field(commandset.CommandField, v.CommandField()).
		field(commandset.AffectedSOPClassUID, v.AffectedSOPClassUID).
		field(commandset.MessageIDBeingRespondedTo, v.MessageIDBeingRespondedTo).
		field(commandset.CommandDataSetType, uint16(v.CommandDataSetType)).
		suboperationCounts(v.Counts).
		status(&v.Status).
		finish(v.Extra)
	if err != nil {
		return fmt.Errorf("CGetRsp.Encode: %w", err)
	}
	return EncodeElements(e, elems)
}

func (v *CGetRsp) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

func (v *CGetRsp) CommandField() uint16 {
	return CommandFieldCGetRsp
}

func (v *CGetRsp) GetMessageID() MessageID {
	return v.MessageIDBeingRespondedTo
}

func (v *CGetRsp) GetStatus() *Status {
	return &v.Status
}

func (v *CGetRsp) String() string {
	return fmt.Sprintf("CGetRsp{AffectedSOPClassUID:%v MessageIDBeingRespondedTo:%v CommandDataSetType:%v Counts:%+v Status:%v}}", v.AffectedSOPClassUID, v.MessageIDBeingRespondedTo, v.CommandDataSetType, v.Counts, v.Status)
}

func (CGetRsp) decode(d *MessageDecoder) (*CGetRsp, error) {
	v := &CGetRsp{}
	var err error

	v.AffectedSOPClassUID, err = d.GetString(commandset.AffectedSOPClassUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CGetRsp.decode: failed to decode AffectedSOPClassUID: %w", err)
	}

	v.MessageIDBeingRespondedTo, err = d.GetUInt16(commandset.MessageIDBeingRespondedTo, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CGetRsp.decode: failed to decode MessageIDBeingRespondedTo: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("CGetRsp.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.Counts, err = decodeSuboperationCounts(d)
	if err != nil {
		return nil, fmt.Errorf("CGetRsp.decode: %w", err)
	}

	v.Status, err = d.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("CGetRsp.decode: failed to decode Status: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}
