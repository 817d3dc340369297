package transaction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Creator is the outbound collaborator that persists a finished draft. The
// API client implements it; tests substitute fakes.
type Creator interface {
	CreateTransaction(ctx context.Context, req CreateRequest) (ListItem, error)
}

// Step is the form step the draft is on.
type Step int

const (
	StepCoreFields  Step = 1
	StepTypeDetails Step = 2
)

// ErrSubmitInFlight signals a second submit while the first has not resolved.
// At most one create request may be in flight per draft.
var ErrSubmitInFlight = errors.New("draft: submit already in flight")

// GenericSubmitFailure is shown when the server gives no usable detail.
const GenericSubmitFailure = "Unable to create transaction. Please check the form and try again."

// serverDetailer is satisfied by API errors that carry a server-provided
// detail string.
type serverDetailer interface {
	ServerDetail() string
}

// Draft accumulates user input for one unsubmitted transaction across two
// steps: core fields, then type-specific participant fields. It owns the
// in-progress state exclusively until a submit succeeds, at which point the
// record belongs to the server and the local draft is discarded.
//
// Payload fields are kept in a persistent superset (PayloadState), so
// switching the selected type preserves values already typed for another
// shape; only the active variant's fields are sent.
type Draft struct {
	creator   Creator
	onCreated func(context.Context)
	idGen     func() string

	submitting atomic.Bool

	mu            sync.Mutex
	id            string
	core          CoreFields
	payload       PayloadState
	selectedType  Type
	step          Step
	coreMessage   string
	submitMessage string
}

// NewDraft creates an empty draft bound to the given creator.
func NewDraft(creator Creator) *Draft {
	d := &Draft{
		creator: creator,
		idGen:   uuid.NewString,
	}
	d.resetLocked()
	return d
}

// WithReload registers a callback invoked exactly once after each successful
// submit, used to trigger a full reload of the transaction list.
func (d *Draft) WithReload(fn func(context.Context)) *Draft {
	d.onCreated = fn
	return d
}

// WithIDGenerator overrides draft ID generation, for tests.
func (d *Draft) WithIDGenerator(gen func() string) *Draft {
	d.idGen = gen
	d.mu.Lock()
	d.id = gen()
	d.mu.Unlock()
	return d
}

// ID identifies this draft instance locally. It never reaches the server.
func (d *Draft) ID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id
}

// CoreFields returns a copy of the current step-1 values.
func (d *Draft) CoreFields() CoreFields {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.core
}

// SetCoreFields replaces the step-1 values.
func (d *Draft) SetCoreFields(core CoreFields) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.core = core
}

// PayloadState returns a copy of the superset payload values.
func (d *Draft) PayloadState() PayloadState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.payload
}

// SetPayloadState replaces the superset payload values.
func (d *Draft) SetPayloadState(state PayloadState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payload = state
}

// SelectedType returns the active transaction type.
func (d *Draft) SelectedType() Type {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selectedType
}

// SelectType switches the active transaction type. Previously entered payload
// fields are preserved; they simply stop being projected into the request
// until the type is switched back.
func (d *Draft) SelectType(t Type) error {
	if !t.IsValid() {
		return fmt.Errorf("draft: unknown transaction type %q", t)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selectedType = t
	return nil
}

// CurrentStep returns the step the form is on.
func (d *Draft) CurrentStep() Step {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.step
}

// CoreMessage is the inline step-1 validation message, empty when valid.
func (d *Draft) CoreMessage() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.coreMessage
}

// SubmitMessage is the inline submit failure message, empty until a submit fails.
func (d *Draft) SubmitMessage() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitMessage
}

// ValidateCoreFields checks the step-1 fields and records the inline message.
func (d *Draft) ValidateCoreFields() *ValidationError {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validateCoreLocked()
}

func (d *Draft) validateCoreLocked() *ValidationError {
	d.coreMessage = ""
	if err := ValidateCoreFields(d.core); err != nil {
		d.coreMessage = err.Message
		return err
	}
	return nil
}

// AdvanceStep moves to step 2 when the core fields validate; otherwise the
// draft stays on step 1 with the message surfaced. No server call is made.
func (d *Draft) AdvanceStep() *ValidationError {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.validateCoreLocked(); err != nil {
		d.step = StepCoreFields
		return err
	}
	d.step = StepTypeDetails
	return nil
}

// BackStep returns to step 1 without validating or losing state.
func (d *Draft) BackStep() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.step = StepCoreFields
}

// BuildRequest assembles the outbound create request from the current state.
func (d *Draft) BuildRequest() CreateRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buildRequestLocked()
}

func (d *Draft) buildRequestLocked() CreateRequest {
	return CreateRequest{
		CoreFields: d.core,
		Type:       d.selectedType,
		Payload:    BuildPayload(d.selectedType, d.payload),
	}
}

// Submit re-validates, assembles the request and sends it.
//
// On success the draft is cleared to its initial empty state and the reload
// callback fires once. On failure every entered value is retained and the
// inline message carries the server-provided detail when present, falling
// back to a generic message. No retry is attempted; the user must re-submit.
func (d *Draft) Submit(ctx context.Context) (ListItem, error) {
	if !d.submitting.CompareAndSwap(false, true) {
		return ListItem{}, ErrSubmitInFlight
	}
	defer d.submitting.Store(false)

	d.mu.Lock()
	d.submitMessage = ""
	if err := d.validateCoreLocked(); err != nil {
		d.step = StepCoreFields
		d.mu.Unlock()
		return ListItem{}, err
	}
	if err := ValidatePayload(d.selectedType, d.payload); err != nil {
		d.submitMessage = err.Message
		d.mu.Unlock()
		return ListItem{}, err
	}
	req := d.buildRequestLocked()
	d.mu.Unlock()

	created, err := d.creator.CreateTransaction(ctx, req)
	if err != nil {
		d.mu.Lock()
		d.submitMessage = submitFailureMessage(err)
		d.mu.Unlock()
		return ListItem{}, fmt.Errorf("draft: submit: %w", err)
	}

	d.mu.Lock()
	d.resetLocked()
	d.mu.Unlock()

	if d.onCreated != nil {
		d.onCreated(ctx)
	}
	return created, nil
}

// Reset discards all entered values and returns the draft to step 1.
func (d *Draft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
}

func (d *Draft) resetLocked() {
	if d.idGen == nil {
		d.idGen = uuid.NewString
	}
	d.id = d.idGen()
	d.core = CoreFields{}
	d.payload = initialPayloadState()
	d.selectedType = TypeSingleBrokerSale
	d.step = StepCoreFields
	d.coreMessage = ""
	d.submitMessage = ""
}

func submitFailureMessage(err error) string {
	var detailed serverDetailer
	if errors.As(err, &detailed) {
		if detail := detailed.ServerDetail(); detail != "" {
			return detail
		}
	}
	return GenericSubmitFailure
}
