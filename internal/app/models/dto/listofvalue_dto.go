package dto

// CreateListOfValueRequest adds a taxonomy entry to the choir
type CreateListOfValueRequest struct {
	Category    string `json:"category" binding:"required,oneof=voice_group voice_type event_type membership_type"`
	Value       string `json:"value" binding:"required"`
	DisplayName string `json:"displayName,omitempty"`
	ParentID    *int64 `json:"parentId,omitempty"`
	SortOrder   int    `json:"sortOrder,omitempty"`
}

// UpdateListOfValueRequest updates a taxonomy entry
type UpdateListOfValueRequest struct {
	Value       string `json:"value" binding:"required"`
	DisplayName string `json:"displayName,omitempty"`
	ParentID    *int64 `json:"parentId,omitempty"`
	SortOrder   int    `json:"sortOrder,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

// OrphanVoiceType is a voice type without a parent voice group. Valid, but
// surfaced so an admin can repair the taxonomy.
type OrphanVoiceType struct {
	ID          int64  `json:"id"`
	Value       string `json:"value"`
	DisplayName string `json:"displayName"`
}

// TaxonomyDiagnostics reports structural oddities in the choir's taxonomy
type TaxonomyDiagnostics struct {
	OrphanVoiceTypes []OrphanVoiceType `json:"orphanVoiceTypes"`
	CategoryCounts   map[string]int    `json:"categoryCounts"`
}
