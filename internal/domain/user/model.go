package user

// Principal is the authenticated identity attached to a request after token
// verification. Credential handling itself lives in the accounts service.
type Principal struct {
	UserID string
	Email  string
}
