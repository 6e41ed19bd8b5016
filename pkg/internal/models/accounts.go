package models

// Account is the caller identity taken from a verified identity-provider
// session token.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

func (v Account) DisplayName() string {
	if len(v.Username) > 0 {
		return v.Username
	} else if len(v.Name) > 0 {
		return v.Name
	}
	return v.ID
}
