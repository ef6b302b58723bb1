package models

// Profile is a member profile row. FirstName/LastName may both be absent.
type Profile struct {
	ID         string  `json:"id"`
	ExternalID string  `json:"auth_id,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
}

// DisplayName renders first+last name, falling back to whichever part is
// present. Returns "" when the profile carries no name at all; callers
// supply their own placeholder.
func (p Profile) DisplayName() string {
	first, last := "", ""
	if p.FirstName != nil {
		first = *p.FirstName
	}
	if p.LastName != nil {
		last = *p.LastName
	}
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}
