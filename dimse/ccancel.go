package dimse

import (
	"fmt"
	"io"

	"github.com/dulengine/dul/dimse/commandset"
	"github.com/suyashkumar/dicom"
)

// CCancelRq cancels an outstanding C-FIND, C-GET or C-MOVE operation
// identified by MessageIDBeingRespondedTo; which service it cancels is
// implied by the presentation context it's sent on, not by the command
// field, which all three share (DICOM PS3.7 §9.3.2.3/§9.3.3.3/§9.3.4.3).
type CCancelRq struct {
	MessageIDBeingRespondedTo MessageID
	Priority                  uint16
	CommandDataSetType        CommandDataSetType
	Extra                     []*dicom.Element // Unparsed elements
}

func (v *CCancelRq) Encode(e io.Writer) error {
	elems := []*dicom.Element{}

	elem, err := NewElement(commandset.CommandField, v.CommandField())
	if err != nil {
		return fmt.Errorf("CCancelRq.Encode: failed to create CommandField element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.MessageIDBeingRespondedTo, v.MessageIDBeingRespondedTo)
	if err != nil {
		return fmt.Errorf("CCancelRq.Encode: failed to create MessageIDBeingRespondedTo element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.Priority, v.Priority)
	if err != nil {
		return fmt.Errorf("CCancelRq.Encode: failed to create Priority element: %w", err)
	}
	elems = append(elems, elem)

	elem, err = NewElement(commandset.CommandDataSetType, uint16(v.CommandDataSetType))
	if err != nil {
		return fmt.Errorf("CCancelRq.Encode: failed to create CommandDataSetType element: %w", err)
	}
	elems = append(elems, elem)

	elems = append(elems, v.Extra...)

	if err := EncodeElements(e, elems); err != nil {
		return fmt.Errorf("CCancelRq.Encode: failed to encode elements: %w", err)
	}
	return nil
}

func (v *CCancelRq) HasData() bool {
	return v.CommandDataSetType != CommandDataSetTypeNull
}

func (v *CCancelRq) CommandField() uint16 {
	return CommandFieldCCancelRq
}

func (v *CCancelRq) GetMessageID() MessageID {
	return v.MessageIDBeingRespondedTo
}

func (v *CCancelRq) GetStatus() *Status {
	return nil
}

func (v *CCancelRq) String() string {
	return fmt.Sprintf("CCancelRq{MessageIDBeingRespondedTo:%v Priority:%v CommandDataSetType:%v}}", v.MessageIDBeingRespondedTo, v.Priority, v.CommandDataSetType)
}

func (CCancelRq) decode(d *MessageDecoder) (*CCancelRq, error) {
	v := &CCancelRq{}
	var err error

	v.MessageIDBeingRespondedTo, err = d.GetUInt16(commandset.MessageIDBeingRespondedTo, RequiredElement)
	if err != nil {
		return nil, fmt.Errorf("cCancelRq.decode: failed to decode MessageIDBeingRespondedTo: %w", err)
	}

	v.Priority, err = d.GetUInt16(commandset.Priority, OptionalElement)
	if err != nil {
		return nil, fmt.Errorf("cCancelRq.decode: failed to decode Priority: %w", err)
	}

	v.CommandDataSetType, err = d.GetCommandDataSetType()
	if err != nil {
		return nil, fmt.Errorf("cCancelRq.decode: failed to decode CommandDataSetType: %w", err)
	}

	v.Extra = d.UnparsedElements()
	return v, nil
}
