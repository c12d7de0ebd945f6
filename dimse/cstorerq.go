package dimse

import (
	"fmt"
	"io"

	"github.com/dulengine/dul/dimse/commandset"
	"github.com/suyashkumar/dicom"
)

// CStoreRq is a C-STORE-RQ command set (DICOM PS3.7 §9.3.1): a request
// to store one composite SOP instance, always followed by a dataset
// PDV.
//
// MoveOriginatorApplicationEntityTitle and MoveOriginatorMessageID are
// populated only when this store is a sub-operation of a C-MOVE the
// named AE originated; a direct C-STORE SCU leaves both zero.
type CStoreRq struct {
	AffectedSOPClassUID                  string
	MessageID                            MessageID
	Priority                             uint16
	CommandDataSetType                   CommandDataSetType
	AffectedSOPInstanceUID               string
	MoveOriginatorApplicationEntityTitle string
	MoveOriginatorMessageID              MessageID
	Extra                                []*dicom.Element // Unparsed elements
}

func (v *CStoreRq) Encode(e io.Writer) error {
	elems, err := (&commandBuilder{}).
		field(commandset.CommandField, v.CommandField()).
		field(commandset.AffectedSOPClassUID, v.AffectedSOPClassUID).
		field(commandset.MessageID, v.MessageID).
		field(commandset.Priority, v.Priority).
		field(commandset.CommandDataSetType, uint16(v.CommandDataSetType)).
		field(commandset.AffectedSOPInstanceUID, v.AffectedSOPInstanceUID).
		optionalField(v.MoveOriginatorApplicationEntityTitle != "", commandset.MoveOriginatorApplicationEntityTitle, v.MoveOriginatorApplicationEntityTitle).
		optionalField(v.MoveOriginatorMessageID != 0, commandset.MoveOriginatorMessageID, v.MoveOriginatorMessageID).
		finish(v.Extra)
	if err != nil {
		return fmt.Errorf("CStoreRq.Encode: %w", err)
	}
	return EncodeElements(e, elems)
}

func (v *CStoreRq) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

// IsMoveSubOperation reports whether this store was originated by a
// C-MOVE rather than sent directly by a C-STORE SCU.
func (v *CStoreRq) IsMoveSubOperation() bool {
	return v.MoveOriginatorApplicationEntityTitle != ""
}

func (v *CStoreRq) CommandField() uint16 {
	return CommandFieldCStoreRq
}

func (v *CStoreRq) GetMessageID() MessageID {
	return v.MessageID
}

func (v *CStoreRq) GetStatus() *Status {
	return nil
}

func (v *CStoreRq) String() string {
	return fmt.Sprintf("CStoreRq{AffectedSOPClassUID:%v MessageID:%v Priority:%v CommandDataSetType:%v AffectedSOPInstanceUID:%v MoveOriginatorApplicationEntityTitle:%v MoveOriginatorMessageID:%v}}", v.AffectedSOPClassUID, v.MessageID, v.Priority, v.CommandDataSetType, v.AffectedSOPInstanceUID, v.MoveOriginatorApplicationEntityTitle, v.MoveOriginatorMessageID)
}

func (CStoreRq) decode(d *MessageDecoder) (*CStoreRq, error) {
	v := &CStoreRq{}
	var err error

	v.AffectedSOPClassUID, err = d.GetString(commandset.AffectedSOPClassUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CStoreRq.decode: failed to decode AffectedSOPClassUID: %w", err)
	}

	v.MessageID, err = d.GetUInt16(commandset.MessageID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CStoreRq.decode: failed to decode MessageID: %w", err)
	}

	v.Priority, err = d.GetUInt16(commandset.Priority, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CStoreRq.decode: failed to decode Priority: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("CStoreRq.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.AffectedSOPInstanceUID, err = d.GetString(commandset.AffectedSOPInstanceUID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CStoreRq.decode: failed to decode AffectedSOPInstanceUID: %w", err)
	}

	v.MoveOriginatorApplicationEntityTitle, err = d.GetString(commandset.MoveOriginatorApplicationEntityTitle, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("CStoreRq.decode: failed to decode MoveOriginatorApplicationEntityTitle: %w", err)
	}

	v.MoveOriginatorMessageID, err = d.GetUInt16(commandset.MoveOriginatorMessageID, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("CStoreRq.decode: failed to decode MoveOriginatorMessageID: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}
