package authz

// Identity is the authenticated actor as persisted under the "user"
// session key. EmployeeID is empty for accounts without an HR profile.
type Identity struct {
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	EmployeeID string `json:"employeeId,omitempty"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	FullName   string `json:"fullName"`
}

func (i Identity) IsZero() bool {
	return i == Identity{}
}

// DisplayName prefers the precomputed full name from the backend.
func (i Identity) DisplayName() string {
	if i.FullName != "" {
		return i.FullName
	}
	if i.FirstName != "" || i.LastName != "" {
		if i.FirstName == "" {
			return i.LastName
		}
		if i.LastName == "" {
			return i.FirstName
		}
		return i.FirstName + " " + i.LastName
	}
	return i.Username
}
