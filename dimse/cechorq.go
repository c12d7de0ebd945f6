package dimse

import (
	"fmt"
	"io"

	"github.com/dulengine/dul/dimse/commandset"
	"github.com/suyashkumar/dicom"
)

// CEchoRq is a C-ECHO-RQ command set (DICOM PS3.7 §9.3.5): the
// verification service's request, carrying no dataset.
type CEchoRq struct {
	MessageID          MessageID
	CommandDataSetType CommandDataSetType
	Extra              []*dicom.Element // Unparsed elements
}

func (v *CEchoRq) Encode(e io.Writer) error {
	elems, err := (&commandBuilder{}).
		field(commandset.CommandField, v.CommandField()).
		field(commandset.MessageID, v.MessageID).
		field(commandset.CommandDataSetType, uint16(v.CommandDataSetType)).
		finish(v.Extra)
	if err != nil {
		return fmt.Errorf("CEchoRq.Encode: %w", err)
	}
	return EncodeElements(e, elems)
}

func (v *CEchoRq) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

func (v *CEchoRq) CommandField() uint16 {
	return CommandFieldCEchoRq
}

func (v *CEchoRq) GetMessageID() MessageID {
	return v.MessageID
}

func (v *CEchoRq) GetStatus() *Status {
	return nil
}

func (v *CEchoRq) String() string {
	return fmt.Sprintf("CEchoRq{MessageID:%v CommandDataSetType:%v}}", v.MessageID, v.CommandDataSetType)
}

func (CEchoRq) decode(d *MessageDecoder) (*CEchoRq, error) {
	v := &CEchoRq{}
	var err error
	v.MessageID, err = d.GetUInt16(commandset.MessageID, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CEchoRq.decode: failed to get MessageID: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("CEchoRq.decode: failed to get CommandDataSetType: %w", err)
	}
	v.Extra = d.UnparsedElements()
	return v, nil
}
