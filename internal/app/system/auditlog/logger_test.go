package auditlog

import (
	"testing"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
)

func TestAppendChange(t *testing.T) {
	var changes []audit.FieldChange

	changes = AppendChange(changes, "status", "pending", "confirmed")
	changes = AppendChange(changes, "currency", "NGN", "NGN") // unchanged, skipped
	changes = AppendChangeInt(changes, "amount", 100_000, 250_000)
	changes = AppendChangeBool(changes, "active", false, true)

	if len(changes) != 3 {
		t.Fatalf("len(changes) = %d, want 3", len(changes))
	}
	if changes[0].Field != "status" || changes[0].Old != "pending" || changes[0].New != "confirmed" {
		t.Errorf("unexpected first change: %+v", changes[0])
	}
	if changes[1].Field != "amount" || changes[1].New != "250000" {
		t.Errorf("unexpected amount change: %+v", changes[1])
	}
	if changes[2].Field != "active" || changes[2].New != "true" {
		t.Errorf("unexpected active change: %+v", changes[2])
	}
}

func TestLogger_NilIsNoop(t *testing.T) {
	var l *Logger
	// Must not panic.
	l.Log(t.Context(), audit.Event{Category: audit.CategoryData})
}
