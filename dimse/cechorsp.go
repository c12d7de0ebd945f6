package dimse

import (
	"fmt"
	"io"

	"github.com/dulengine/dul/dimse/commandset"
	"github.com/suyashkumar/dicom"
)

// CEchoRsp is a C-ECHO-RSP command set: the verification service's
// response. Status is almost always Success; a responder that can't
// answer at all (e.g. during shutdown) is expected to abort rather than
// return a failure status here.
type CEchoRsp struct {
	MessageIDBeingRespondedTo MessageID
	CommandDataSetType        CommandDataSetType
	Status                    Status
	Extra                     []*dicom.Element // Unparsed elements
}

func (v *CEchoRsp) Encode(e io.Writer) error {
	elems, err := (&commandBuilder{}).
		field(commandset.CommandField, v.CommandField()).
		field(commandset.MessageIDBeingRespondedTo, v.MessageIDBeingRespondedTo).
		field(commandset.CommandDataSetType, uint16(v.CommandDataSetType)).
		status(&v.Status).
		finish(v.Extra)
	if err != nil {
		return fmt.Errorf("CEchoRsp.Encode: %w", err)
	}
	return EncodeElements(e, elems)
}

func (v *CEchoRsp) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

func (v *CEchoRsp) CommandField() uint16 {
	return CommandFieldCEchoRsp
}

func (v *CEchoRsp) GetMessageID() MessageID {
	return v.MessageIDBeingRespondedTo
}

func (v *CEchoRsp) GetStatus() *Status {
	return &v.Status
}

func (v *CEchoRsp) String() string {
	return fmt.Sprintf("CEchoRsp{MessageIDBeingRespondedTo:%v CommandDataSetType:%v Status:%v}}", v.MessageIDBeingRespondedTo, v.CommandDataSetType, v.Status)
}

func (CEchoRsp) decode(d *MessageDecoder) (*CEchoRsp, error) {
	v := &CEchoRsp{}
	var err error

	v.MessageIDBeingRespondedTo, err = d.GetUInt16(commandset.MessageIDBeingRespondedTo, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("CEchoRsp.decode: failed to decode MessageIDBeingRespondedTo: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("CEchoRsp.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.Status, err = d.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("CEchoRsp.decode: failed to decode Status: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}
