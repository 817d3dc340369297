package transaction

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Payload is the type-dependent portion of a create request. Exactly one
// variant struct exists per transaction type shape; the active variant is
// selected by BuildPayload so no fields from another shape ever leak onto
// the wire.
type Payload interface {
	isPayload()
}

// SingleBrokerSalePayload names both parties of a single-broker sale.
type SingleBrokerSalePayload struct {
	BuyerEmail  string `json:"buyer_email" mapstructure:"buyer_email"`
	SellerEmail string `json:"seller_email" mapstructure:"seller_email"`
}

// DoubleBrokerSplitPayload records which party the originating broker knows
// and which secondary broker to bring in.
type DoubleBrokerSplitPayload struct {
	KnownPartyRole       PartyRole `json:"known_party_role" mapstructure:"known_party_role"`
	KnownPartyEmail      string    `json:"known_party_email" mapstructure:"known_party_email"`
	SecondaryBrokerEmail string    `json:"secondary_broker_email" mapstructure:"secondary_broker_email"`
}

// NotesPayload carries the optional free text used by due-diligence and
// hidden-defects transactions.
type NotesPayload struct {
	Notes string `json:"notes" mapstructure:"notes"`
}

func (SingleBrokerSalePayload) isPayload()  {}
func (DoubleBrokerSplitPayload) isPayload() {}
func (NotesPayload) isPayload()             {}

// PayloadState is the superset of every per-type payload field. The draft
// keeps one persistent instance so switching the selected type never discards
// values already typed for a different shape; only BuildPayload projects the
// active variant.
type PayloadState struct {
	BuyerEmail           string
	SellerEmail          string
	KnownPartyRole       PartyRole
	KnownPartyEmail      string
	SecondaryBrokerEmail string
	Notes                string
}

func initialPayloadState() PayloadState {
	return PayloadState{KnownPartyRole: RoleBuyer}
}

// BuildPayload maps the superset state onto the variant required by t.
// It is total over the closed Type enum; an unrecognized type is a
// programming error, not user input, and panics.
func BuildPayload(t Type, state PayloadState) Payload {
	switch t {
	case TypeSingleBrokerSale:
		return SingleBrokerSalePayload{
			BuyerEmail:  state.BuyerEmail,
			SellerEmail: state.SellerEmail,
		}
	case TypeDoubleBrokerSplit:
		return DoubleBrokerSplitPayload{
			KnownPartyRole:       state.KnownPartyRole,
			KnownPartyEmail:      state.KnownPartyEmail,
			SecondaryBrokerEmail: state.SecondaryBrokerEmail,
		}
	case TypeDueDiligence, TypeHiddenDefects:
		return NotesPayload{Notes: state.Notes}
	default:
		panic(fmt.Sprintf("transaction: unknown type %q", t))
	}
}

// DecodePayload turns the free-form details map from a transaction detail
// response back into the typed variant for t.
func DecodePayload(t Type, data map[string]any) (Payload, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("transaction: unknown type %q", t)
	}

	decode := func(out any) error {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName: "mapstructure",
			Result:  out,
		})
		if err != nil {
			return fmt.Errorf("transaction: build payload decoder: %w", err)
		}
		if err := decoder.Decode(data); err != nil {
			return fmt.Errorf("transaction: decode %s payload: %w", t, err)
		}
		return nil
	}

	switch t {
	case TypeSingleBrokerSale:
		var p SingleBrokerSalePayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		return p, nil
	case TypeDoubleBrokerSplit:
		var p DoubleBrokerSplitPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		var p NotesPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		return p, nil
	}
}
