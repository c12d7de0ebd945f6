package dimse

import (
	"bytes"
	"fmt"

	"github.com/suyashkumar/dicom"

	"github.com/dulengine/dul/pdu"
)

// CommandAssembler reassembles a DIMSE command message, and its optional
// data set, from the sequence of P-DATA-TF PDV fragments the dul layer
// delivers for one presentation context (DICOM PS3.8 §9.3.5, PS3.7 §6.3.1).
type CommandAssembler struct {
	contextID      byte
	commandBytes   []byte
	command        Message
	dataBytes      []byte
	readAllCommand bool
	readAllData    bool
}

// AddDataPDU folds one P-DATA-TF PDU's PDVs into the assembler. Once the
// command has been fully reassembled (and its data set too, if HasData()
// says it has one), it returns the context ID, the decoded command, and the
// raw data-set bytes, resetting the assembler for the next message. Until
// then it returns a nil command with no error.
func (a *CommandAssembler) AddDataPDU(p *pdu.PDataTF) (byte, Message, []byte, error) {
	for _, pdv := range p.Items {
		if a.contextID == 0 {
			a.contextID = pdv.ContextID
		} else if a.contextID != pdv.ContextID {
			return 0, nil, nil, fmt.Errorf("dimse: P-DATA-TF mixes presentation contexts %d and %d", a.contextID, pdv.ContextID)
		}
		if pdv.Command {
			a.commandBytes = append(a.commandBytes, pdv.Value...)
			if pdv.Last {
				if a.readAllCommand {
					return 0, nil, nil, fmt.Errorf("dimse: P-DATA-TF: more than one command fragment marked Last")
				}
				a.readAllCommand = true
			}
		} else {
			a.dataBytes = append(a.dataBytes, pdv.Value...)
			if pdv.Last {
				if a.readAllData {
					return 0, nil, nil, fmt.Errorf("dimse: P-DATA-TF: more than one data fragment marked Last")
				}
				a.readAllData = true
			}
		}
	}

	if !a.readAllCommand {
		return 0, nil, nil, nil
	}

	if a.command == nil {
		r := bytes.NewReader(a.commandBytes)
		parsed, err := dicom.Parse(r, int64(r.Len()), nil, dicom.SkipPixelData(), dicom.SkipMetadataReadOnNewParserInit())
		if err != nil {
			return 0, nil, nil, fmt.Errorf("dimse: parsing command set: %w", err)
		}
		a.command, err = ReadMessage(&parsed)
		if err != nil {
			return 0, nil, nil, err
		}
	}

	if a.command.HasData() && !a.readAllData {
		return 0, nil, nil, nil
	}

	contextID, command, dataBytes := a.contextID, a.command, a.dataBytes
	*a = CommandAssembler{}
	return contextID, command, dataBytes, nil
}
