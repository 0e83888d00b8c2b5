// internal/app/system/auditlog/diff.go
package auditlog

import (
	"strconv"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
)

// AppendChange appends a field diff only when the value actually changed.
func AppendChange(changes []audit.FieldChange, field, oldVal, newVal string) []audit.FieldChange {
	if oldVal == newVal {
		return changes
	}
	return append(changes, audit.FieldChange{Field: field, Old: oldVal, New: newVal})
}

// AppendChangeInt is AppendChange for integer fields.
func AppendChangeInt(changes []audit.FieldChange, field string, oldVal, newVal int64) []audit.FieldChange {
	return AppendChange(changes, field, strconv.FormatInt(oldVal, 10), strconv.FormatInt(newVal, 10))
}

// AppendChangeBool is AppendChange for boolean fields.
func AppendChangeBool(changes []audit.FieldChange, field string, oldVal, newVal bool) []audit.FieldChange {
	return AppendChange(changes, field, strconv.FormatBool(oldVal), strconv.FormatBool(newVal))
}
