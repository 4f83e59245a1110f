package ledger

import (
	"context"
	"testing"
)

// Amount checks run before the repository is touched, so a nil repo is enough.
func TestService_RejectsBadAmounts(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, nil, 1, -1, "commission_payout", "x"); err == nil {
		t.Error("negative credit accepted")
	}
	if _, err := svc.Debit(ctx, nil, 1, 0, "withdrawal", "x"); err == nil {
		t.Error("zero debit accepted")
	}
	if _, err := svc.Debit(ctx, nil, 1, -5, "withdrawal", "x"); err == nil {
		t.Error("negative debit accepted")
	}
}
