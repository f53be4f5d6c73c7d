package services

import (
	"encoding/json"
	"testing"

	"igen/internal/models"
	"igen/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db, models.RoleAccountant)

	svc.Log(user.ID, "CLASSIFY", "bank_transaction", "txn-1", "10.0.0.1", map[string]any{"amount": "500.00"})
	svc.Log("", "PIPELINE_UPLOAD", "bank_upload_batch", "batch-1", "", nil)

	var entries []models.AuditLog
	db.Order("created_at ASC").Find(&entries)
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}

	if entries[0].UserID == nil || *entries[0].UserID != user.ID {
		t.Error("expected first entry to carry the user")
	}
	var changes map[string]any
	if err := json.Unmarshal(entries[0].Changes, &changes); err != nil || changes["amount"] != "500.00" {
		t.Errorf("expected changes to round-trip, got %s", entries[0].Changes)
	}
	if entries[1].UserID != nil {
		t.Error("expected system entry to have no user")
	}
}
