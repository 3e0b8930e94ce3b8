package dto

// ImportMemberRow is one spreadsheet row of raw member data
type ImportMemberRow struct {
	Email          string `json:"email" binding:"required,email"`
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	Phone          string `json:"phone,omitempty"`
	VoiceGroup     string `json:"voiceGroup,omitempty"`
	VoiceType      string `json:"voiceType,omitempty"`
	MembershipType string `json:"membershipType,omitempty"`
}

// ImportRequest is a batch of rows to preview or execute
type ImportRequest struct {
	Rows []ImportMemberRow `json:"rows" binding:"required,min=1,dive"`
}

// ValueMapping explains how one raw taxonomy label will be resolved
type ValueMapping struct {
	Raw         string `json:"raw"`
	Canonical   string `json:"canonical"`
	Matched     bool   `json:"matched"`
	WouldCreate bool   `json:"wouldCreate"`
}

// ImportPreview is the dry-run result of an import
type ImportPreview struct {
	RowCount          int            `json:"rowCount"`
	VoiceGroups       []ValueMapping `json:"voiceGroups"`
	VoiceTypes        []ValueMapping `json:"voiceTypes"`
	MembershipTypes   []ValueMapping `json:"membershipTypes"`
	ExistingEmails    []string       `json:"existingEmails,omitempty"`
	NewTaxonomyValues int            `json:"newTaxonomyValues"`
}

// ImportResult summarizes an executed import
type ImportResult struct {
	CreatedUsers    int      `json:"createdUsers"`
	CreatedMembers  int      `json:"createdMembers"`
	CreatedTaxonomy int      `json:"createdTaxonomy"`
	SkippedEmails   []string `json:"skippedEmails,omitempty"`
}
