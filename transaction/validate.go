package transaction

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationReason identifies which rule a draft failed. Checks run in a fixed
// order and short-circuit, so callers always see the first failure.
type ValidationReason string

const (
	ReasonIncompleteCoreFields      ValidationReason = "incomplete_core_fields"
	ReasonDepositExceedsPrice       ValidationReason = "deposit_exceeds_price"
	ReasonClosingBeforeDueDiligence ValidationReason = "closing_before_due_diligence"
	ReasonInvalidPayload            ValidationReason = "invalid_payload"
)

// ValidationError is a local, always-recoverable failure. Message is shown
// inline to the user; Reason lets code branch without string matching.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(reason ValidationReason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}

const apiDateLayout = "2006-01-02"

// ValidateCoreFields checks the step-1 fields. Values that fail to parse as
// numbers or dates skip their comparison rather than failing: the server is
// the authority on malformed values, the client only catches the orderings a
// user can see are wrong.
func ValidateCoreFields(core CoreFields) *ValidationError {
	if strings.TrimSpace(core.Title) == "" ||
		strings.TrimSpace(core.PropertyDescription) == "" ||
		core.PurchasePrice == "" ||
		core.EarnestDeposit == "" ||
		core.DueDiligenceEndDate == "" ||
		core.EstimatedClosingDate == "" {
		return validationError(ReasonIncompleteCoreFields,
			"Please complete all required transaction details in Step 1.")
	}

	purchase, errPurchase := strconv.ParseFloat(core.PurchasePrice, 64)
	earnest, errEarnest := strconv.ParseFloat(core.EarnestDeposit, 64)
	if errPurchase == nil && errEarnest == nil && earnest > purchase {
		return validationError(ReasonDepositExceedsPrice,
			"Earnest deposit cannot exceed purchase price.")
	}

	dueDate, errDue := time.Parse(apiDateLayout, core.DueDiligenceEndDate)
	closingDate, errClosing := time.Parse(apiDateLayout, core.EstimatedClosingDate)
	if errDue == nil && errClosing == nil && !closingDate.After(dueDate) {
		return validationError(ReasonClosingBeforeDueDiligence,
			"Estimated closing date must be after due diligence end date.")
	}

	return nil
}

var validate = validator.New()

// ValidatePayload pre-checks the type-specific fields against the same rules
// the server enforces, so a bad step 2 fails before the request leaves the
// client. Notes-style payloads have no required fields.
func ValidatePayload(t Type, state PayloadState) *ValidationError {
	type emailField struct {
		name  string
		value string
	}

	switch t {
	case TypeSingleBrokerSale:
		for _, f := range []emailField{
			{"buyer_email", state.BuyerEmail},
			{"seller_email", state.SellerEmail},
		} {
			if err := validate.Var(f.value, "required,email"); err != nil {
				return payloadFieldError(f.name)
			}
		}
	case TypeDoubleBrokerSplit:
		if state.KnownPartyRole != RoleBuyer && state.KnownPartyRole != RoleSeller {
			return payloadFieldError("known_party_role")
		}
		for _, f := range []emailField{
			{"known_party_email", state.KnownPartyEmail},
			{"secondary_broker_email", state.SecondaryBrokerEmail},
		} {
			if err := validate.Var(f.value, "required,email"); err != nil {
				return payloadFieldError(f.name)
			}
		}
	case TypeDueDiligence, TypeHiddenDefects:
		// notes are optional free text
	default:
		panic(fmt.Sprintf("transaction: unknown type %q", t))
	}
	return nil
}

func payloadFieldError(field string) *ValidationError {
	return validationError(ReasonInvalidPayload, fmt.Sprintf("%s is required", field))
}
