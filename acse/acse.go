// Package acse implements presentation-context negotiation (DICOM
// PS3.8 §9.3.2/§9.3.3, PS3.7 Annex D): building the proposal items for
// an A-ASSOCIATE-RQ, matching a peer's proposal against locally
// supported abstract/transfer syntaxes, and applying a requestor's
// response against its own outstanding proposals. One Negotiator is
// created per association attempt.
package acse

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/dulengine/dul/pdu/item"
	"github.com/dulengine/dul/transfersyntax"
)

// ImplementationClassUID identifies this engine to peers in the User
// Information item (DICOM PS3.7 Annex D.3.3.2). It's a real UUID-derived
// UID under a private root rather than a borrowed registered UID.
var ImplementationClassUID = "2.25." + uuidToDecimal(uuid.New())

// ImplementationVersionName is the free-text version string advertised
// alongside ImplementationClassUID.
const ImplementationVersionName = "DULENGINE_1"

// PresentationContext is one negotiated (abstract syntax, transfer
// syntax, context ID) triple, the unit of SOP class + encoding that
// DIMSE messages are exchanged under.
type PresentationContext struct {
	ContextID      byte
	AbstractSyntax string
	TransferSyntax string
	// SCURole and SCPRole reflect any accepted role-selection item for
	// this abstract syntax (spec.md §3, §4.4); both false means the
	// conventional requestor-is-SCU assignment applies.
	SCURole bool
	SCPRole bool
}

// ProposedContext is one abstract syntax a requestor offers, together
// with the transfer syntaxes it's willing to use for it, in preference
// order (DICOM PS3.7 Annex D.3.2).
type ProposedContext struct {
	AbstractSyntax   string
	TransferSyntaxes []string
	RequestRole      *RoleProposal
}

// RoleProposal requests SCU/SCP role selection for an abstract syntax
// (spec.md §3, §4.4).
type RoleProposal struct {
	SCU bool
	SCP bool
}

// RoleSupport declares, per abstract syntax, which roles this side is
// locally able to perform. The acceptor weighs a peer's RoleProposal
// against its own RoleSupport to decide the outcome (DICOM PS3.7 Annex
// D.3.3.4): a proposed SCU role can only be granted if the acceptor is
// willing to act as SCP for that abstract syntax, and vice versa.
type RoleSupport struct {
	SCU bool
	SCP bool
}

// Negotiator tracks context-ID <-> (abstract,transfer) syntax mappings
// for one association. The requestor and acceptor sides use different
// methods below but share this type.
type Negotiator struct {
	byContextID  map[byte]*PresentationContext
	byAbstractUID map[string]*PresentationContext

	// PeerMaxPDUSize is populated from the peer's Maximum Length item.
	PeerMaxPDUSize uint32
	// PeerImplementationClassUID and PeerImplementationVersionName are
	// populated from the peer's User Information item, if present.
	PeerImplementationClassUID    string
	PeerImplementationVersionName string

	// pending is used only on the requestor side: contextID -> what was
	// proposed, so the AC response can be validated against it.
	pending map[byte]*item.PresentationContextItem
}

// NewNegotiator returns an empty Negotiator for one association attempt.
func NewNegotiator() *Negotiator {
	return &Negotiator{
		byContextID:   make(map[byte]*PresentationContext),
		byAbstractUID: make(map[string]*PresentationContext),
		pending:       make(map[byte]*item.PresentationContextItem),
	}
}

// BuildAssociateRQItems renders proposed contexts into the Items list
// for an A-ASSOCIATE-RQ PDU (DICOM PS3.8 §9.3.2, PS3.7 Annex D.3.2).
func (n *Negotiator) BuildAssociateRQItems(proposed []ProposedContext, maxPDUSize uint32) []item.SubItem {
	items := []item.SubItem{item.NewApplicationContextItem(item.DefaultApplicationContextName)}

	var contextID byte = 1
	for _, p := range proposed {
		subItems := []item.SubItem{item.NewAbstractSyntaxItem(p.AbstractSyntax)}
		for _, ts := range p.TransferSyntaxes {
			subItems = append(subItems, item.NewTransferSyntaxItem(ts))
		}
		pc := &item.PresentationContextItem{
			Type:      item.TypePresentationContextRequest,
			ContextID: contextID,
			Items:     subItems,
		}
		items = append(items, pc)
		n.pending[contextID] = pc
		if p.RequestRole != nil {
			items = append(items, &item.UserInformationItem{Items: []item.SubItem{
				&item.RoleSelectionItem{SOPClassUID: p.AbstractSyntax, SCURole: p.RequestRole.SCU, SCPRole: p.RequestRole.SCP},
			}})
		}
		contextID += 2 // context IDs are always odd.
	}

	items = append(items, &item.UserInformationItem{Items: []item.SubItem{
		&item.MaximumLengthItem{MaximumLengthReceived: maxPDUSize},
		item.NewImplementationClassUIDItem(ImplementationClassUID),
		item.NewImplementationVersionNameItem(ImplementationVersionName),
	}})
	return items
}

// OnAssociateRequest matches a peer's proposal (the acceptor side)
// against the locally supported abstract syntaxes and transfer syntax
// preference order supplied in supported, and returns the Items for the
// A-ASSOCIATE-AC response. roleSupport declares, per abstract syntax,
// which roles this side can perform; a nil or missing entry means no
// role selection is offered for that abstract syntax and the
// conventional requestor-is-SCU assignment stands.
func (n *Negotiator) OnAssociateRequest(requestItems []item.SubItem, supported map[string][]string, roleSupport map[string]RoleSupport, maxPDUSize uint32) ([]item.SubItem, error) {
	responses := []item.SubItem{item.NewApplicationContextItem(item.DefaultApplicationContextName)}

	roleRequests := make(map[string]*item.RoleSelectionItem)
	for _, it := range requestItems {
		if ui, ok := it.(*item.UserInformationItem); ok {
			for _, sub := range ui.Items {
				if rs, ok := sub.(*item.RoleSelectionItem); ok {
					roleRequests[rs.SOPClassUID] = rs
				}
			}
		}
	}

	var roleResponses []item.SubItem
	for _, it := range requestItems {
		switch ri := it.(type) {
		case *item.PresentationContextItem:
			pc, roleResponse, err := n.negotiateOne(ri, supported, roleRequests, roleSupport)
			if err != nil {
				return nil, err
			}
			responses = append(responses, pc)
			if roleResponse != nil {
				roleResponses = append(roleResponses, roleResponse)
			}
		case *item.UserInformationItem:
			n.absorbUserInformation(ri)
		}
	}
	if len(roleResponses) > 0 {
		responses = append(responses, &item.UserInformationItem{Items: roleResponses})
	}

	responses = append(responses, &item.UserInformationItem{Items: []item.SubItem{
		&item.MaximumLengthItem{MaximumLengthReceived: maxPDUSize},
		item.NewImplementationClassUIDItem(ImplementationClassUID),
		item.NewImplementationVersionNameItem(ImplementationVersionName),
	}})
	return responses, nil
}

// negotiateOne decides the outcome for one proposed presentation context
// and, if the requestor proposed a role for its abstract syntax, the
// matching role-selection response (DICOM PS3.7 Annex D.3.3.4): a
// proposed SCU role is granted only if this side supports acting as SCP
// for the abstract syntax, and a proposed SCP role only if this side
// supports acting as SCU for it.
func (n *Negotiator) negotiateOne(rq *item.PresentationContextItem, supported map[string][]string, roleRequests map[string]*item.RoleSelectionItem, roleSupport map[string]RoleSupport) (*item.PresentationContextItem, *item.RoleSelectionItem, error) {
	var abstractSyntax string
	var proposedTS []string
	for _, sub := range rq.Items {
		switch c := sub.(type) {
		case *item.AbstractSyntaxItem:
			abstractSyntax = c.Name
		case *item.TransferSyntaxItem:
			proposedTS = append(proposedTS, c.Name)
		}
	}
	if abstractSyntax == "" {
		return nil, nil, fmt.Errorf("acse: presentation context %d has no abstract syntax", rq.ContextID)
	}

	localTS, ok := supported[abstractSyntax]
	if !ok {
		return &item.PresentationContextItem{
			Type: item.TypePresentationContextResponse, ContextID: rq.ContextID,
			Result: item.ResultAbstractSyntaxNotSupported,
		}, nil, nil
	}

	picked := pickTransferSyntax(localTS, proposedTS)
	if picked == "" {
		return &item.PresentationContextItem{
			Type: item.TypePresentationContextResponse, ContextID: rq.ContextID,
			Result: item.ResultTransferSyntaxesNotSupported,
		}, nil, nil
	}

	var scu, scp bool
	var roleResponse *item.RoleSelectionItem
	if req, ok := roleRequests[abstractSyntax]; ok {
		support := roleSupport[abstractSyntax]
		scu = req.SCURole && support.SCP
		scp = req.SCPRole && support.SCU
		roleResponse = &item.RoleSelectionItem{SOPClassUID: abstractSyntax, SCURole: scu, SCPRole: scp}
	}

	n.addMapping(abstractSyntax, picked, rq.ContextID, scu, scp)
	return &item.PresentationContextItem{
		Type: item.TypePresentationContextResponse, ContextID: rq.ContextID,
		Result: item.ResultAcceptance,
		Items:  []item.SubItem{item.NewTransferSyntaxItem(picked)},
	}, roleResponse, nil
}

// pickTransferSyntax returns the first entry of local (our preference
// order) that the peer also proposed, or "" if there is no overlap.
func pickTransferSyntax(local, proposed []string) string {
	proposedSet := make(map[string]bool, len(proposed))
	for _, ts := range proposed {
		proposedSet[ts] = true
	}
	for _, ts := range local {
		if proposedSet[ts] {
			return ts
		}
	}
	return ""
}

// OnAssociateResponse applies an A-ASSOCIATE-AC's Items (the requestor
// side) against this Negotiator's pending proposals. Role-selection
// items in the AC are matched up with each context's abstract syntax
// after every PresentationContextItem has been mapped, since a
// RoleSelectionItem identifies its abstract syntax directly rather than
// by context ID and may appear before or after the context it refers to.
func (n *Negotiator) OnAssociateResponse(responseItems []item.SubItem) error {
	var roleResponses []*item.RoleSelectionItem

	for _, it := range responseItems {
		switch ri := it.(type) {
		case *item.PresentationContextItem:
			if ri.Result != item.ResultAcceptance {
				continue // rejected context; not usable, not an error.
			}
			var pickedTS string
			for _, sub := range ri.Items {
				if ts, ok := sub.(*item.TransferSyntaxItem); ok {
					pickedTS = ts.Name
				}
			}
			request, ok := n.pending[ri.ContextID]
			if !ok {
				return fmt.Errorf("acse: A-ASSOCIATE-AC references unknown context id %d", ri.ContextID)
			}
			var abstractSyntax string
			for _, sub := range request.Items {
				if as, ok := sub.(*item.AbstractSyntaxItem); ok {
					abstractSyntax = as.Name
				}
			}
			if abstractSyntax == "" || pickedTS == "" {
				return fmt.Errorf("acse: incomplete accepted context id %d", ri.ContextID)
			}
			n.addMapping(abstractSyntax, pickedTS, ri.ContextID, false, false)
		case *item.UserInformationItem:
			for _, sub := range ri.Items {
				if rs, ok := sub.(*item.RoleSelectionItem); ok {
					roleResponses = append(roleResponses, rs)
				}
			}
			n.absorbUserInformation(ri)
		}
	}

	for _, rs := range roleResponses {
		pc, ok := n.byAbstractUID[rs.SOPClassUID]
		if !ok {
			continue // role response for a context the acceptor didn't accept.
		}
		pc.SCURole = rs.SCURole
		pc.SCPRole = rs.SCPRole
	}
	return nil
}

func (n *Negotiator) absorbUserInformation(ui *item.UserInformationItem) {
	for _, sub := range ui.Items {
		switch c := sub.(type) {
		case *item.MaximumLengthItem:
			n.PeerMaxPDUSize = c.MaximumLengthReceived
		case *item.ImplementationClassUIDItem:
			n.PeerImplementationClassUID = c.Name
		case *item.ImplementationVersionNameItem:
			n.PeerImplementationVersionName = c.Name
		}
	}
}

func (n *Negotiator) addMapping(abstractSyntax, transferSyntax string, contextID byte, scuRole, scpRole bool) {
	pc := &PresentationContext{
		ContextID: contextID, AbstractSyntax: abstractSyntax, TransferSyntax: transferSyntax,
		SCURole: scuRole, SCPRole: scpRole,
	}
	n.byContextID[contextID] = pc
	n.byAbstractUID[abstractSyntax] = pc
}

// ByContextID returns the negotiated context for id, or ok=false if
// none was accepted under that id.
func (n *Negotiator) ByContextID(id byte) (*PresentationContext, bool) {
	pc, ok := n.byContextID[id]
	return pc, ok
}

// ByAbstractSyntax returns the negotiated context for a SOP class UID,
// or ok=false if it was never accepted.
func (n *Negotiator) ByAbstractSyntax(sopClassUID string) (*PresentationContext, bool) {
	pc, ok := n.byAbstractUID[sopClassUID]
	return pc, ok
}

// AllContexts returns every accepted context keyed by its context ID, for
// callers that need to seed their own lookup tables once negotiation
// completes.
func (n *Negotiator) AllContexts() map[byte]*PresentationContext {
	out := make(map[byte]*PresentationContext, len(n.byContextID))
	for id, pc := range n.byContextID {
		out[id] = pc
	}
	return out
}

// Decode resolves pc.TransferSyntax into its decoded form.
func (pc *PresentationContext) Decode() transfersyntax.TransferSyntax {
	return transfersyntax.Decode(pc.TransferSyntax)
}

func uuidToDecimal(u uuid.UUID) string {
	// Render the UUID as the decimal integer string DICOM's UUID-derived
	// UID scheme (PS3.5 Annex B.2) specifies for privately assigned UIDs.
	return new(big.Int).SetBytes(u[:]).String()
}
