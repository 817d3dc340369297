package transaction

// Type is the closed set of transaction kinds the platform supports.
// Selecting a type determines which payload shape the create endpoint expects.
type Type string

const (
	TypeSingleBrokerSale  Type = "single_broker_sale"
	TypeDoubleBrokerSplit Type = "double_broker_split"
	TypeDueDiligence      Type = "due_diligence"
	TypeHiddenDefects     Type = "hidden_defects"
)

// IsValid reports whether t is one of the known transaction types.
func (t Type) IsValid() bool {
	switch t {
	case TypeSingleBrokerSale, TypeDoubleBrokerSplit, TypeDueDiligence, TypeHiddenDefects:
		return true
	default:
		return false
	}
}

// PartyRole identifies which side of the sale a participant is on.
type PartyRole string

const (
	RoleBuyer           PartyRole = "buyer"
	RoleSeller          PartyRole = "seller"
	RolePrimaryBroker   PartyRole = "primary_broker"
	RoleSecondaryBroker PartyRole = "secondary_broker"
	RoleParticipant     PartyRole = "participant"
)

// Transaction statuses with client-side meaning. Status is otherwise a
// free-form server-owned string.
const (
	StatusInviting  = "inviting"
	StatusCompleted = "completed"
)

// CoreFields are required for every transaction regardless of type. Values
// stay string-typed: they bind directly to form input and the API accepts
// decimal and date fields as strings.
type CoreFields struct {
	Title                string `json:"title"`
	PropertyDescription  string `json:"property_description"`
	PurchasePrice        string `json:"purchase_price"`
	EarnestDeposit       string `json:"earnest_deposit"`
	DueDiligenceEndDate  string `json:"due_diligence_end_date"`
	EstimatedClosingDate string `json:"estimated_closing_date"`
	DepositorName        string `json:"depositor_name,omitempty"`
	PropertyAddress      string `json:"property_address,omitempty"`
}

// CreateRequest is the outbound body for the transaction-creation endpoint.
// The payload shape must match Type exactly; BuildPayload enforces that.
type CreateRequest struct {
	CoreFields
	Type    Type    `json:"type"`
	Payload Payload `json:"payload"`
}

// ListItem is the server-returned projection shown on the dashboard. The
// client never mutates it; after a create or invite action it re-fetches the
// full list.
type ListItem struct {
	CoreFields
	ID                  string  `json:"id"`
	Type                Type    `json:"type"`
	Status              string  `json:"status"`
	Stage               string  `json:"stage,omitempty"`
	StageUpdatedAt      string  `json:"stage_updated_at,omitempty"`
	UpdatedAt           string  `json:"updated_at,omitempty"`
	MyRole              *string `json:"my_role"`
	PendingInvitesCount int     `json:"pending_invites_count"`
	RequiredNextAction  *string `json:"required_next_action"`
}

// Invited reports whether the viewer has been invited to this transaction but
// has not yet joined as a participant.
func (item ListItem) Invited() bool {
	return item.Status == StatusInviting && (item.MyRole == nil || *item.MyRole == "")
}

// Participant is a user holding a role on a transaction.
type Participant struct {
	Role         PartyRole `json:"role"`
	InvitedEmail string    `json:"invited_email,omitempty"`
	User         *string   `json:"user"`
	JoinedAt     *string   `json:"joined_at"`
}

// Invitation is a pending offer of a participant role.
type Invitation struct {
	ParticipantRole PartyRole `json:"participant_role"`
	Status          string    `json:"status"`
	ExpiresAt       string    `json:"expires_at,omitempty"`
}

// CommissionSplit mirrors the broker split attached to double-broker deals.
type CommissionSplit struct {
	PrimaryBrokerPct   string `json:"primary_broker_pct"`
	SecondaryBrokerPct string `json:"secondary_broker_pct"`
}

// Event is an entry in the transaction's server-side audit trail.
type Event struct {
	Type       string         `json:"type"`
	Actor      *string        `json:"actor"`
	ActorEmail *string        `json:"actor_email"`
	Data       map[string]any `json:"data"`
	CreatedAt  string         `json:"created_at"`
}

// Detail is the full transaction view returned by the detail endpoint.
// Details carries the raw type-specific payload map; DecodePayload turns it
// back into a typed variant.
type Detail struct {
	CoreFields
	ID              string           `json:"id"`
	Type            Type             `json:"type"`
	Status          string           `json:"status"`
	Stage           string           `json:"stage,omitempty"`
	StageUpdatedAt  string           `json:"stage_updated_at,omitempty"`
	CreatedAt       string           `json:"created_at,omitempty"`
	UpdatedAt       string           `json:"updated_at,omitempty"`
	Participants    []Participant    `json:"participants"`
	Invitations     []Invitation     `json:"invitations"`
	Details         map[string]any   `json:"details"`
	CommissionSplit *CommissionSplit `json:"commission_split"`
	Events          []Event          `json:"events"`
}
