//go:generate stringer -type StatusCode
package dimse

import (
	"fmt"

	"github.com/dulengine/dul/dimse/commandset"
	"github.com/dulengine/dul/dulerr"
	"github.com/suyashkumar/dicom"
)

// Status is the result of one DIMSE operation: a 16-bit code plus an
// optional free-text comment, carried in every response command set
// (DICOM PS3.7 Annex C).
type Status struct {
	// Status is StatusSuccess on success, or one of the Pending/Warning/
	// Cancel/Failure codes below otherwise.
	Status StatusCode

	// ErrorComment is an optional diagnostic string, encoded as
	// (0000,0902) when non-empty.
	ErrorComment string
}

// Success is the canonical OK status.
var Success = Status{Status: StatusSuccess}

// StatusCode is a DIMSE service response code (DICOM PS3.7 Annex C).
type StatusCode uint16

const (
	StatusSuccess               StatusCode = 0
	StatusCancel                StatusCode = 0xFE00
	StatusSOPClassNotSupported  StatusCode = 0x0112
	StatusInvalidArgumentValue  StatusCode = 0x0115
	StatusInvalidAttributeValue StatusCode = 0x0106
	StatusInvalidObjectInstance StatusCode = 0x0117
	StatusUnrecognizedOperation StatusCode = 0x0211
	StatusNotAuthorized         StatusCode = 0x0124
	StatusPending               StatusCode = 0xFF00
	StatusPendingOptionalKeys   StatusCode = 0xFF01

	// CStoreOutOfResources etc. are the C-STORE-specific status codes
	// (DICOM PS3.4 Annex GG.4.1).
	CStoreOutOfResources              StatusCode = 0xA700
	CStoreCannotUnderstand            StatusCode = 0xC000
	CStoreDataSetDoesNotMatchSOPClass StatusCode = 0xA900

	// CFindUnableToProcess is the C-FIND refused-identifier failure code.
	CFindUnableToProcess StatusCode = 0xC000

	// CMoveOutOfResourcesUnableToCalculateNumberOfMatches etc. are the
	// C-MOVE/C-GET-specific status codes.
	CMoveOutOfResourcesUnableToCalculateNumberOfMatches StatusCode = 0xA701
	CMoveOutOfResourcesUnableToPerformSubOperations     StatusCode = 0xA702
	CMoveMoveDestinationUnknown                         StatusCode = 0xA801
	CMoveDataSetDoesNotMatchSOPClass                    StatusCode = 0xA900

	// StatusAttributeValueOutOfRange and StatusAttributeListError are
	// warning codes.
	StatusAttributeValueOutOfRange StatusCode = 0x0116
	StatusAttributeListError       StatusCode = 0x0107
)

// StatusClass is the coarse-grained bucket a StatusCode falls into
// (spec.md §4.5's status taxonomy: Success, Pending, Warning, Cancel,
// Failure). C-FIND/C-GET/C-MOVE response sequences terminate once a
// status yields anything other than ClassPending.
type StatusClass int

const (
	ClassSuccess StatusClass = iota
	ClassPending
	ClassCancel
	ClassWarning
	ClassFailure
)

func (c StatusClass) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassPending:
		return "pending"
	case ClassCancel:
		return "cancel"
	case ClassWarning:
		return "warning"
	default:
		return "failure"
	}
}

// Class buckets s.Status by exact code: StatusSuccess is success,
// StatusPending and StatusPendingOptionalKeys are pending, StatusCancel
// is cancel, StatusAttributeValueOutOfRange and StatusAttributeListError
// are warnings, and every other code is a failure. No range or bit test
// is applied, so warning codes not listed here are classed as failure.
func (s Status) Class() StatusClass {
	switch s.Status {
	case StatusSuccess:
		return ClassSuccess
	case StatusPending, StatusPendingOptionalKeys:
		return ClassPending
	case StatusCancel:
		return ClassCancel
	case StatusAttributeValueOutOfRange, StatusAttributeListError:
		return ClassWarning
	default:
		return ClassFailure
	}
}

// IsSuccess reports whether s signals the operation completed with no
// error or warning.
func (s Status) IsSuccess() bool { return s.Class() == ClassSuccess }

// IsPending reports whether a C-FIND/C-GET/C-MOVE responder should keep
// iterating: more matches follow this response.
func (s Status) IsPending() bool { return s.Class() == ClassPending }

// AsError returns a *dulerr.ServiceStatus wrapping s, or nil if s is a
// Success status. Callers that treat "any non-success response" as an
// error (e.g. a simple C-STORE SCU) can use this directly; callers that
// need to act differently per StatusClass (Cancel vs. Warning vs.
// Failure) should inspect Class instead.
func (s Status) AsError() error {
	if s.IsSuccess() {
		return nil
	}
	return &dulerr.ServiceStatus{Status: uint16(s.Status), Comment: s.ErrorComment}
}

// ToElements renders s as its wire elements: the Status field always,
// plus ErrorComment when set.
func (s *Status) ToElements() ([]*dicom.Element, error) {
	statusElement, err := NewElement(commandset.Status, int(s.Status))
	if err != nil {
		return nil, fmt.Errorf("dimse: encoding status %v: %w", s.Status, err)
	}
	elems := []*dicom.Element{statusElement}
	if s.ErrorComment != "" {
		commentElement, err := NewElement(commandset.ErrorComment, s.ErrorComment)
		if err != nil {
			return nil, fmt.Errorf("dimse: encoding error comment %q: %w", s.ErrorComment, err)
		}
		elems = append(elems, commentElement)
	}
	return elems, nil
}
