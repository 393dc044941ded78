// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Serialized keys of the JobPosting fields.
const (
	FieldCompanyName  = "company_name"
	FieldRole         = "role"
	FieldEmail        = "email"
	FieldLocation     = "location"
	FieldStipend      = "stipend"
	FieldBatch        = "batch"
	FieldRequirements = "requirements"
	FieldRawMessage   = "raw_message"
)

// JobPosting is the structured record extracted from a free-form job
// announcement. Optional fields are nil when the message does not carry
// them; a non-nil field always holds a trimmed, non-empty value.
type JobPosting struct {
	// CompanyName comes from a "Company: ..." line.
	CompanyName *string `json:"company_name" yaml:"company_name"`

	// Role comes from a "Role: ..." line.
	Role *string `json:"role" yaml:"role"`

	// Email is the first email address found anywhere in the message.
	Email *string `json:"email" yaml:"email"`

	// Location comes from a "Location: ..." line.
	Location *string `json:"location" yaml:"location"`

	// Stipend comes from a "Stipend: ..." line.
	Stipend *string `json:"stipend" yaml:"stipend"`

	// Batch is the eligible graduation batch or cohort.
	Batch *string `json:"batch" yaml:"batch"`

	// Requirements is the multi-line block after a "Requirements:" header,
	// with bullet markers normalized to "- ".
	Requirements *string `json:"requirements" yaml:"requirements"`

	// RawMessage is the input exactly as received.
	RawMessage string `json:"raw_message" yaml:"raw_message"`
}

// Field returns the value of the field serialized under name and whether
// it is present. raw_message is always present.
func (p JobPosting) Field(name string) (string, bool) {
	var v *string
	switch name {
	case FieldCompanyName:
		v = p.CompanyName
	case FieldRole:
		v = p.Role
	case FieldEmail:
		v = p.Email
	case FieldLocation:
		v = p.Location
	case FieldStipend:
		v = p.Stipend
	case FieldBatch:
		v = p.Batch
	case FieldRequirements:
		v = p.Requirements
	case FieldRawMessage:
		return p.RawMessage, true
	}
	if v == nil {
		return "", false
	}
	return *v, true
}

// Missing returns the names from the given list that are absent in p,
// in the order they were requested. Unknown names are reported as missing.
func (p JobPosting) Missing(names ...string) []string {
	var missing []string
	for _, name := range names {
		if _, ok := p.Field(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
