package models

import "time"

// ListOfValue is a generic tenant-scoped taxonomy row used for voice groups,
// voice types, event types and membership types. Voice types may reference a
// parent voice group through ParentID; an orphan voice type (nil parent) is
// valid but reported by the diagnostics endpoint.
type ListOfValue struct {
	ID          int64       `json:"id" db:"id"`
	ChoirID     int64       `json:"choirId" db:"choir_id"`
	Category    LovCategory `json:"category" db:"category"`
	Value       string      `json:"value" db:"value"`
	DisplayName string      `json:"displayName" db:"display_name"`
	ParentID    *int64      `json:"parentId,omitempty" db:"parent_id"`
	SortOrder   int         `json:"sortOrder" db:"sort_order"`
	Active      bool        `json:"active" db:"active"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}
