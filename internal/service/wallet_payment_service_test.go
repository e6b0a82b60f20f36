package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/hbarlink/internal/constants"
	"github.com/hbarlink/internal/ledger"
	"github.com/hbarlink/internal/wallet"

	"github.com/shopspring/decimal"
)

func setupWalletPaymentTest(t *testing.T, gateway *fakeGateway) (*WalletPaymentService, *wallet.Manager, *LinkService) {
	t.Helper()
	payments, links, _ := setupPaymentServiceTest(t)
	manager := wallet.NewManager(wallet.NewMemoryStore(), wallet.NewTokenIssuer("wallet-test-secret-wallet-test-secret"), wallet.Options{
		Network:        constants.LedgerNetworkTestnet,
		PairingTimeout: time.Minute,
		SessionTTL:     time.Hour,
	})
	return NewWalletPaymentService(manager, links, payments, gateway), manager, links
}

func pairedSession(t *testing.T, manager *wallet.Manager, account string) string {
	t.Helper()
	ctx := context.Background()
	session, _, err := manager.Start(ctx)
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	if _, err := manager.Pair(ctx, session.ID, account); err != nil {
		t.Fatalf("pair session failed: %v", err)
	}
	return session.ID
}

var signedPayload = base64.StdEncoding.EncodeToString([]byte("signed-transfer"))

func TestWalletPaymentServiceSuccess(t *testing.T) {
	gateway := &fakeGateway{
		network: "testnet",
		signed: &ledger.SignedTransfer{
			TransactionID: "0.0.9@1700000000.000000001",
			Memo:          "coffee",
			Credits:       map[string]int64{"0.0.1001": 500000000},
		},
		submit: &ledger.SubmitResult{TransactionID: "0.0.9@1700000000.000000001", Status: "SUCCESS", Success: true},
	}
	svc, manager, links := setupWalletPaymentTest(t, gateway)
	link := createCoffeeLink(t, links)
	sessionID := pairedSession(t, manager, "0.0.9")

	result, err := svc.Pay(context.Background(), sessionID, WalletPayInput{LinkID: link.ID, SignedTransactionBase64: signedPayload})
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if result.Status != constants.PaymentStatusSuccess || result.TransactionID != "0.0.9@1700000000.000000001" {
		t.Fatalf("unexpected result: %+v", result)
	}
	payment := result.Payment
	if payment.PayerAccount == nil || *payment.PayerAccount != "0.0.9" || payment.Ledger == nil || *payment.Ledger != "testnet" {
		t.Fatalf("payment metadata missing: %+v", payment)
	}
	if !payment.Amount.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("amount want 5 got %s", payment.Amount.String())
	}

	got, err := links.Get(context.Background(), link.ID)
	if err != nil {
		t.Fatalf("get link failed: %v", err)
	}
	if !got.TotalPaid.Equal(decimal.NewFromInt(5)) || got.PaymentsCount != 1 {
		t.Fatalf("rollup want 5/1 got %s/%d", got.TotalPaid.String(), got.PaymentsCount)
	}
}

func TestWalletPaymentServiceRejectsTransferToOtherAccount(t *testing.T) {
	gateway := &fakeGateway{
		network: "testnet",
		signed:  &ledger.SignedTransfer{Credits: map[string]int64{"0.0.666": 500000000}},
	}
	svc, manager, links := setupWalletPaymentTest(t, gateway)
	link := createCoffeeLink(t, links)
	sessionID := pairedSession(t, manager, "0.0.9")

	_, err := svc.Pay(context.Background(), sessionID, WalletPayInput{LinkID: link.ID, SignedTransactionBase64: signedPayload})
	if !errors.Is(err, ErrSignedTransferInvalid) {
		t.Fatalf("want ErrSignedTransferInvalid got %v", err)
	}
}

func TestWalletPaymentServiceRequiresPairedSession(t *testing.T) {
	svc, manager, links := setupWalletPaymentTest(t, &fakeGateway{network: "testnet"})
	link := createCoffeeLink(t, links)
	session, _, err := manager.Start(context.Background())
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}

	_, err = svc.Pay(context.Background(), session.ID, WalletPayInput{LinkID: link.ID, SignedTransactionBase64: signedPayload})
	if !errors.Is(err, wallet.ErrNotPaired) {
		t.Fatalf("want ErrNotPaired got %v", err)
	}
}

func TestWalletPaymentServiceSubmitFailureIsRecorded(t *testing.T) {
	gateway := &fakeGateway{
		network:   "testnet",
		signed:    &ledger.SignedTransfer{TransactionID: "0.0.9@1700000000.000000002", Credits: map[string]int64{"0.0.1001": 100000000}},
		submitErr: errors.New("node unavailable"),
	}
	svc, manager, links := setupWalletPaymentTest(t, gateway)
	link := createCoffeeLink(t, links)
	sessionID := pairedSession(t, manager, "0.0.9")

	_, err := svc.Pay(context.Background(), sessionID, WalletPayInput{LinkID: link.ID, SignedTransactionBase64: signedPayload})
	if !errors.Is(err, ErrLedgerSubmitFailed) || !errors.Is(err, ErrUpstream) {
		t.Fatalf("want ErrLedgerSubmitFailed got %v", err)
	}
	attempts, total, err := svc.payments.ListAttempts(link.ID, constants.PaymentStatusFailed, 1, 10)
	if err != nil {
		t.Fatalf("list attempts failed: %v", err)
	}
	if total != 1 || attempts[0].Error == nil || *attempts[0].Error != "node unavailable" {
		t.Fatalf("failed submission should be audited: %+v", attempts)
	}
}

func TestWalletPaymentServiceValidation(t *testing.T) {
	svc, manager, _ := setupWalletPaymentTest(t, &fakeGateway{network: "testnet"})
	sessionID := pairedSession(t, manager, "0.0.9")

	if _, err := svc.Pay(context.Background(), sessionID, WalletPayInput{LinkID: "x"}); !errors.Is(err, ErrSignedTransferRequired) {
		t.Fatalf("want ErrSignedTransferRequired got %v", err)
	}
	if _, err := svc.Pay(context.Background(), sessionID, WalletPayInput{LinkID: "ghost", SignedTransactionBase64: signedPayload}); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("want ErrLinkNotFound got %v", err)
	}
}
