package repository

import (
	"testing"
	"time"

	"github.com/hbarlink/internal/constants"
	"github.com/hbarlink/internal/models"
)

func TestPaymentAttemptRepositoryTransitionAndCredit(t *testing.T) {
	_, db := setupLinkRepositoryTest(t)
	repo := NewPaymentAttemptRepository(db)

	txID := "0.0.5005@1700000000.000000001"
	attempt := &models.PaymentAttempt{
		LinkID: "coffee",
		Amount: models.NewAmountFromInt(4),
		TxID:   &txID,
		Status: constants.PaymentStatusSubmitted,
	}
	if err := repo.Create(attempt); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := repo.GetLatestByTxID(txID)
	if err != nil || found == nil || found.ID != attempt.ID {
		t.Fatalf("lookup by tx id failed: %+v err=%v", found, err)
	}

	ok, err := repo.TransitionStatus(attempt.ID, constants.PaymentStatusFailed, constants.PaymentStatusSuccess, nil)
	if err != nil || ok {
		t.Fatalf("transition from wrong state should not apply, ok=%v err=%v", ok, err)
	}
	ok, err = repo.TransitionStatus(attempt.ID, constants.PaymentStatusSubmitted, constants.PaymentStatusSuccess, nil)
	if err != nil || !ok {
		t.Fatalf("transition failed, ok=%v err=%v", ok, err)
	}

	now := time.Now()
	ok, err = repo.MarkCredited(attempt.ID, now)
	if err != nil || !ok {
		t.Fatalf("first credit failed, ok=%v err=%v", ok, err)
	}
	ok, err = repo.MarkCredited(attempt.ID, now)
	if err != nil || ok {
		t.Fatalf("second credit should be rejected, ok=%v err=%v", ok, err)
	}

	items, total, err := repo.ListByLinkID(PaymentAttemptListFilter{LinkID: "coffee"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Status != constants.PaymentStatusSuccess {
		t.Fatalf("unexpected list result total=%d", total)
	}
}
