// Command escrowdesk is a terminal client for the escrow transaction
// platform: sign in, inspect the dashboard, create transactions, invite
// counterparties and submit a broker application.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"escrowdesk/api"
	"escrowdesk/broker"
	"escrowdesk/config"
	"escrowdesk/dashboard"
	"escrowdesk/format"
	"escrowdesk/health"
	"escrowdesk/logger"
	"escrowdesk/session"
	"escrowdesk/transaction"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() string {
	return `usage: escrowdesk <command> [flags]

commands:
  register       create an account
  login          sign in and store the session
  logout         discard the stored session
  dashboard      show invitations and active transactions
  create         create a transaction (two-step draft)
  detail         show one transaction
  invite         invite the counterparty on a transaction
  invitations    list pending invitations
  accept         accept an invitation token
  broker-status  show broker application status
  broker-apply   submit a broker application
  health         watch platform health`
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)

	store, err := session.NewFileStore(cfg.Session.Path)
	if err != nil {
		return err
	}
	client, err := api.NewClient(cfg.API.BaseURL, store)
	if err != nil {
		return err
	}
	client.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) == 0 {
		fmt.Println(usage())
		return nil
	}

	switch args[0] {
	case "register":
		return runRegister(ctx, client, args[1:])
	case "login":
		return runLogin(ctx, client, args[1:])
	case "logout":
		return client.Logout()
	case "dashboard":
		return runDashboard(ctx, client)
	case "create":
		return runCreate(ctx, client, args[1:])
	case "detail":
		return runDetail(ctx, client, args[1:])
	case "invite":
		return runInvite(ctx, client, args[1:])
	case "invitations":
		return runInvitations(ctx, client)
	case "accept":
		return runAccept(ctx, client, args[1:])
	case "broker-status":
		return runBrokerStatus(ctx, client)
	case "broker-apply":
		return runBrokerApply(ctx, client, args[1:])
	case "health":
		return runHealth(ctx, client, cfg)
	default:
		fmt.Println(usage())
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runRegister(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	first := fs.String("first-name", "", "first name (optional)")
	last := fs.String("last-name", "", "last name (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	created, err := client.Register(ctx, api.RegisterRequest{
		Email:     *email,
		Password:  *password,
		FirstName: *first,
		LastName:  *last,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered %s\n", created.Email)
	return nil
}

func runLogin(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := client.Login(ctx, api.Credentials{Email: *email, Password: *password}); err != nil {
		return err
	}
	fmt.Println("logged in")
	return nil
}

func runDashboard(ctx context.Context, client *api.Client) error {
	loader := dashboard.NewLoader(client)
	if err := loader.Refresh(ctx); err != nil {
		return err
	}

	if profile := loader.Profile(); profile != nil {
		role := "Standard user"
		if profile.IsBroker {
			role = "Broker"
		}
		fmt.Printf("%s (%s)\n\n", profile.Email, role)
	}

	projection := loader.Projection()
	fmt.Println("Invitations:")
	if len(projection.Invitations) == 0 {
		fmt.Println("  no pending invitations")
	}
	for _, item := range projection.Invitations {
		printListItem(item)
	}

	fmt.Println("\nActive transactions:")
	if len(projection.Active) == 0 {
		fmt.Println("  no transactions yet")
	}
	for _, item := range projection.Active {
		printListItem(item)
	}
	return nil
}

func printListItem(item transaction.ListItem) {
	title := item.Title
	if title == "" {
		title = "Untitled transaction"
	}
	fmt.Printf("  [%s] %s — %s\n", item.Status, title, item.Type)
	fmt.Printf("      price %s, deposit %s, due diligence %s, closing %s\n",
		format.Currency(item.PurchasePrice),
		format.Currency(item.EarnestDeposit),
		format.Date(item.DueDiligenceEndDate),
		format.Date(item.EstimatedClosingDate),
	)
	if item.MyRole != nil && *item.MyRole != "" {
		fmt.Printf("      my role: %s\n", *item.MyRole)
	}
	if item.PendingInvitesCount > 0 {
		fmt.Printf("      %d pending invite(s)\n", item.PendingInvitesCount)
	}
	if item.RequiredNextAction != nil && *item.RequiredNextAction != "" {
		fmt.Printf("      next: %s\n", *item.RequiredNextAction)
	}
}

func runCreate(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	title := fs.String("title", "", "transaction title")
	description := fs.String("description", "", "property description")
	price := fs.String("price", "", "purchase price")
	deposit := fs.String("deposit", "", "earnest deposit")
	dueDiligence := fs.String("due-diligence-end", "", "due diligence end date (YYYY-MM-DD)")
	closing := fs.String("closing", "", "estimated closing date (YYYY-MM-DD)")
	depositor := fs.String("depositor", "", "depositor name (optional)")
	address := fs.String("address", "", "property address (optional)")
	txType := fs.String("type", string(transaction.TypeSingleBrokerSale), "transaction type")
	buyerEmail := fs.String("buyer-email", "", "buyer email (single broker sale)")
	sellerEmail := fs.String("seller-email", "", "seller email (single broker sale)")
	knownRole := fs.String("known-party-role", "buyer", "known party role (double broker split)")
	knownEmail := fs.String("known-party-email", "", "known party email (double broker split)")
	secondaryEmail := fs.String("secondary-broker-email", "", "secondary broker email (double broker split)")
	notes := fs.String("notes", "", "notes (due diligence / hidden defects)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	loader := dashboard.NewLoader(client)
	draft := transaction.NewDraft(client).WithReload(func(ctx context.Context) {
		if err := loader.Reload(ctx); err != nil {
			logger.L.Warn("reload after create failed", "error", err)
		}
	})

	draft.SetCoreFields(transaction.CoreFields{
		Title:                *title,
		PropertyDescription:  *description,
		PurchasePrice:        *price,
		EarnestDeposit:       *deposit,
		DueDiligenceEndDate:  *dueDiligence,
		EstimatedClosingDate: *closing,
		DepositorName:        *depositor,
		PropertyAddress:      *address,
	})
	if err := draft.AdvanceStep(); err != nil {
		return fmt.Errorf("%s", err.Message)
	}

	if err := draft.SelectType(transaction.Type(*txType)); err != nil {
		return err
	}
	draft.SetPayloadState(transaction.PayloadState{
		BuyerEmail:           *buyerEmail,
		SellerEmail:          *sellerEmail,
		KnownPartyRole:       transaction.PartyRole(*knownRole),
		KnownPartyEmail:      *knownEmail,
		SecondaryBrokerEmail: *secondaryEmail,
		Notes:                *notes,
	})

	created, err := draft.Submit(ctx)
	if err != nil {
		if msg := draft.SubmitMessage(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}
	fmt.Printf("created transaction %s (%s)\n", created.ID, created.Status)
	return nil
}

func runDetail(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("detail", flag.ContinueOnError)
	id := fs.String("id", "", "transaction id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	detail, err := client.GetTransaction(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Printf("%s — %s [%s]\n", detail.Title, detail.Type, detail.Status)
	if detail.Stage != "" {
		fmt.Printf("stage: %s\n", detail.Stage)
	}
	fmt.Printf("price %s, deposit %s\n",
		format.Currency(detail.PurchasePrice), format.Currency(detail.EarnestDeposit))
	for _, p := range detail.Participants {
		joined := "pending"
		if p.JoinedAt != nil && *p.JoinedAt != "" {
			joined = "joined"
		}
		fmt.Printf("  %s: %s (%s)\n", p.Role, p.InvitedEmail, joined)
	}

	if payload, err := transaction.DecodePayload(detail.Type, detail.Details); err == nil {
		fmt.Printf("details: %+v\n", payload)
	}
	return nil
}

func runInvite(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("invite", flag.ContinueOnError)
	id := fs.String("id", "", "transaction id")
	email := fs.String("email", "", "counterparty email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	updated, err := client.InviteCounterparty(ctx, *id, *email)
	if err != nil {
		return err
	}
	fmt.Printf("invited %s to %s\n", *email, updated.Title)

	// Reconcile by reloading the full list, mirroring the dashboard.
	if _, err := client.ListTransactions(ctx); err != nil {
		logger.L.Warn("reload after invite failed", "error", err)
	}
	return nil
}

func runInvitations(ctx context.Context, client *api.Client) error {
	invites, err := client.ListInvitations(ctx)
	if err != nil {
		return err
	}
	if len(invites) == 0 {
		fmt.Println("no pending invitations")
		return nil
	}
	for _, inv := range invites {
		title := inv.TransactionTitle
		if title == "" {
			title = inv.Transaction
		}
		fmt.Printf("  %s — role %s [%s]", title, inv.Role, inv.Status)
		if inv.ExpiresAt != "" {
			fmt.Printf(", expires %s", format.Date(inv.ExpiresAt))
		}
		fmt.Println()
	}
	return nil
}

func runAccept(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("accept", flag.ContinueOnError)
	token := fs.String("token", "", "invitation token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	detail, err := client.AcceptInvitation(ctx, *token)
	if err != nil {
		return err
	}
	fmt.Printf("joined %s\n", detail.Title)
	return nil
}

func runBrokerStatus(ctx context.Context, client *api.Client) error {
	status, err := client.FetchBrokerApplication(ctx)
	if err != nil {
		return err
	}
	if status.IsBroker {
		fmt.Println("you are a verified broker")
		return nil
	}
	if status.Application == nil {
		fmt.Println("no application on file")
		return nil
	}
	fmt.Println("application submitted, pending review")
	return nil
}

func runBrokerApply(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("broker-apply", flag.ContinueOnError)
	dob := fs.String("date-of-birth", "", "date of birth (YYYY-MM-DD)")
	curp := fs.String("curp", "", "CURP")
	rfc := fs.String("rfc", "", "RFC")
	nationality := fs.String("nationality", "", "nationality")
	address := fs.String("address", "", "address")
	phone := fs.String("mobile-phone", "", "mobile phone")
	occupation := fs.String("occupation", "", "occupation")
	details := fs.String("additional-details", "", "additional details (optional)")
	primary := fs.String("id-primary", "", "path to primary ID document")
	secondary := fs.String("id-secondary", "", "path to secondary ID document")
	selfie := fs.String("selfie", "", "path to selfie with ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	docs := broker.Documents{}
	var err error
	if docs.IDDocumentPrimary, err = loadDocument(broker.FieldIDDocumentPrimary, *primary); err != nil {
		return err
	}
	if docs.IDDocumentSecondary, err = loadDocument(broker.FieldIDDocumentSecondary, *secondary); err != nil {
		return err
	}
	if docs.SelfieWithID, err = loadDocument(broker.FieldSelfieWithID, *selfie); err != nil {
		return err
	}

	status, err := client.SubmitBrokerApplication(ctx, broker.Application{
		DateOfBirth:       *dob,
		Curp:              *curp,
		Rfc:               *rfc,
		Nationality:       *nationality,
		Address:           *address,
		MobilePhone:       *phone,
		Occupation:        *occupation,
		AdditionalDetails: *details,
	}, docs)
	if err != nil {
		return err
	}
	fmt.Println("broker application submitted")
	if status.IsBroker {
		fmt.Println("you are already a verified broker")
	}
	return nil
}

func loadDocument(field, path string) (*broker.Document, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	return &broker.Document{
		Field:    field,
		Filename: filepath.Base(path),
		Content:  content,
	}, nil
}

func runHealth(ctx context.Context, client *api.Client, cfg *config.Config) error {
	monitor := health.NewMonitor(client, cfg.Health.Interval).
		WithOnChange(func(status health.StatusValue) {
			fmt.Printf("platform is %s\n", status)
		})

	fmt.Printf("watching %s every %s (ctrl-c to stop)\n", cfg.API.BaseURL, cfg.Health.Interval)
	if err := monitor.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}
