package transaction

import (
	"context"
	"errors"
	"testing"
)

type fakeCreator struct {
	lastReq CreateRequest
	calls   int
	err     error
	created ListItem
	block   chan struct{}
	started chan struct{}
}

func (f *fakeCreator) CreateTransaction(ctx context.Context, req CreateRequest) (ListItem, error) {
	f.calls++
	f.lastReq = req
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return ListItem{}, f.err
	}
	return f.created, nil
}

type detailedError struct {
	detail string
}

func (e *detailedError) Error() string        { return "api: validation (400)" }
func (e *detailedError) ServerDetail() string { return e.detail }

func newValidDraft(creator Creator) *Draft {
	d := NewDraft(creator)
	d.SetCoreFields(validCore())
	d.SetPayloadState(PayloadState{
		BuyerEmail:     "b@x.com",
		SellerEmail:    "s@x.com",
		KnownPartyRole: RoleBuyer,
	})
	return d
}

func TestDraft_AdvanceStep(t *testing.T) {
	d := NewDraft(&fakeCreator{})

	if err := d.AdvanceStep(); err == nil {
		t.Fatal("expected empty draft to fail step validation")
	}
	if d.CurrentStep() != StepCoreFields {
		t.Fatalf("expected draft to stay on step 1, got %d", d.CurrentStep())
	}
	if d.CoreMessage() == "" {
		t.Fatal("expected inline validation message")
	}

	d.SetCoreFields(validCore())
	if err := d.AdvanceStep(); err != nil {
		t.Fatalf("expected valid core to advance, got %v", err)
	}
	if d.CurrentStep() != StepTypeDetails {
		t.Fatalf("expected step 2, got %d", d.CurrentStep())
	}
	if d.CoreMessage() != "" {
		t.Fatalf("expected message cleared, got %q", d.CoreMessage())
	}
}

func TestDraft_SelectTypePreservesPayload(t *testing.T) {
	d := newValidDraft(&fakeCreator{})

	if err := d.SelectType(TypeDueDiligence); err != nil {
		t.Fatalf("select type: %v", err)
	}
	if err := d.SelectType(TypeSingleBrokerSale); err != nil {
		t.Fatalf("select type back: %v", err)
	}

	state := d.PayloadState()
	if state.BuyerEmail != "b@x.com" || state.SellerEmail != "s@x.com" {
		t.Fatalf("payload fields lost across type switch: %+v", state)
	}

	if err := d.SelectType(Type("mystery")); err == nil {
		t.Fatal("expected unknown type to be rejected")
	}
}

func TestDraft_SubmitSuccessClearsDraftAndReloadsOnce(t *testing.T) {
	creator := &fakeCreator{created: ListItem{ID: "tx-1", Status: StatusInviting}}
	reloads := 0
	d := newValidDraft(creator).WithReload(func(context.Context) { reloads++ })
	d.AdvanceStep()

	created, err := d.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.ID != "tx-1" {
		t.Fatalf("expected created item, got %+v", created)
	}
	if reloads != 1 {
		t.Fatalf("expected exactly one reload, got %d", reloads)
	}

	// Draft returned to its initial empty state.
	if d.CoreFields() != (CoreFields{}) {
		t.Fatalf("expected core fields cleared, got %+v", d.CoreFields())
	}
	if d.PayloadState() != initialPayloadState() {
		t.Fatalf("expected payload state reset, got %+v", d.PayloadState())
	}
	if d.CurrentStep() != StepCoreFields {
		t.Fatalf("expected step reset to 1, got %d", d.CurrentStep())
	}
	if d.SelectedType() != TypeSingleBrokerSale {
		t.Fatalf("expected type reset, got %s", d.SelectedType())
	}
}

func TestDraft_SubmitInvalidCoreResetsToStepOne(t *testing.T) {
	creator := &fakeCreator{}
	d := newValidDraft(creator)
	d.AdvanceStep()

	core := d.CoreFields()
	core.Title = ""
	d.SetCoreFields(core)

	if _, err := d.Submit(context.Background()); err == nil {
		t.Fatal("expected submit to fail validation")
	}
	if d.CurrentStep() != StepCoreFields {
		t.Fatalf("expected step reset to 1, got %d", d.CurrentStep())
	}
	if creator.calls != 0 {
		t.Fatalf("expected no server call, got %d", creator.calls)
	}
}

func TestDraft_SubmitFailureRetainsDraft(t *testing.T) {
	creator := &fakeCreator{err: errors.New("connection refused")}
	reloads := 0
	d := newValidDraft(creator).WithReload(func(context.Context) { reloads++ })
	d.AdvanceStep()

	if _, err := d.Submit(context.Background()); err == nil {
		t.Fatal("expected submit failure")
	}

	if d.CoreFields().Title == "" {
		t.Fatal("expected draft values retained on failure")
	}
	if reloads != 0 {
		t.Fatalf("expected no reload on failure, got %d", reloads)
	}
	if d.SubmitMessage() != GenericSubmitFailure {
		t.Fatalf("expected generic failure message, got %q", d.SubmitMessage())
	}

	// No retry happens on its own; an explicit re-submit reaches the server again.
	creator.err = nil
	creator.created = ListItem{ID: "tx-2"}
	if _, err := d.Submit(context.Background()); err != nil {
		t.Fatalf("re-submit: %v", err)
	}
	if creator.calls != 2 {
		t.Fatalf("expected two create calls, got %d", creator.calls)
	}
}

func TestDraft_SubmitPrefersServerDetail(t *testing.T) {
	creator := &fakeCreator{err: &detailedError{detail: "earnest_deposit: too large"}}
	d := newValidDraft(creator)
	d.AdvanceStep()

	if _, err := d.Submit(context.Background()); err == nil {
		t.Fatal("expected submit failure")
	}
	if d.SubmitMessage() != "earnest_deposit: too large" {
		t.Fatalf("expected server detail surfaced, got %q", d.SubmitMessage())
	}
}

func TestDraft_SubmitGuardsConcurrentSubmits(t *testing.T) {
	creator := &fakeCreator{block: make(chan struct{}), started: make(chan struct{}, 1)}
	d := newValidDraft(creator)
	d.AdvanceStep()

	firstDone := make(chan error, 1)
	go func() {
		_, err := d.Submit(context.Background())
		firstDone <- err
	}()

	// Wait for the first submit to reach the creator.
	<-creator.started

	if _, err := d.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(creator.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if creator.calls != 1 {
		t.Fatalf("expected a single create call, got %d", creator.calls)
	}
}

func TestDraft_SubmitIncompletePayload(t *testing.T) {
	creator := &fakeCreator{}
	d := newValidDraft(creator)
	d.AdvanceStep()
	d.SetPayloadState(PayloadState{BuyerEmail: "b@x.com", KnownPartyRole: RoleBuyer})

	if _, err := d.Submit(context.Background()); err == nil {
		t.Fatal("expected payload preflight to fail")
	}
	if creator.calls != 0 {
		t.Fatalf("expected no server call, got %d", creator.calls)
	}
	if d.SubmitMessage() != "seller_email is required" {
		t.Fatalf("unexpected message %q", d.SubmitMessage())
	}
}
