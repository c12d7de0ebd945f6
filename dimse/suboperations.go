package dimse

import (
	"fmt"

	"github.com/dulengine/dul/dimse/commandset"
)

// SuboperationCounts tracks progress through a set of C-STORE
// sub-operations, the shape C-MOVE-RSP and C-GET-RSP both report
// (DICOM PS3.7 §9.3.4/§9.3.3, tags (0000,1020)..(0000,1023)). A
// responder typically sends one Pending response per completed or
// failed sub-operation, decrementing Remaining each time, followed by a
// final response whose status reflects the overall outcome.
type SuboperationCounts struct {
	Remaining uint16
	Completed uint16
	Failed    uint16
	Warning   uint16
}

// Done reports whether every sub-operation has been accounted for.
func (c SuboperationCounts) Done() bool {
	return c.Remaining == 0
}

func (b *commandBuilder) suboperationCounts(c SuboperationCounts) *commandBuilder {
	return b.
		optionalField(c.Remaining != 0, commandset.NumberOfRemainingSuboperations, c.Remaining).
		optionalField(c.Completed != 0, commandset.NumberOfCompletedSuboperations, c.Completed).
		optionalField(c.Failed != 0, commandset.NumberOfFailedSuboperations, c.Failed).
		optionalField(c.Warning != 0, commandset.NumberOfWarningSuboperations, c.Warning)
}

func decodeSuboperationCounts(d *MessageDecoder) (SuboperationCounts, error) {
	var c SuboperationCounts
	var err error

	c.Remaining, err = d.GetUInt16(commandset.NumberOfRemainingSuboperations, OptionalElement)
	if err != nil {
		return c, fmt.Errorf("decoding NumberOfRemainingSuboperations: %w", err)
	}
	c.Completed, err = d.GetUInt16(commandset.NumberOfCompletedSuboperations, OptionalElement)
	if err != nil {
		return c, fmt.Errorf("decoding NumberOfCompletedSuboperations: %w", err)
	}
	c.Failed, err = d.GetUInt16(commandset.NumberOfFailedSuboperations, OptionalElement)
	if err != nil {
		return c, fmt.Errorf("decoding NumberOfFailedSuboperations: %w", err)
	}
	c.Warning, err = d.GetUInt16(commandset.NumberOfWarningSuboperations, OptionalElement)
	if err != nil {
		return c, fmt.Errorf("decoding NumberOfWarningSuboperations: %w", err)
	}
	return c, nil
}
