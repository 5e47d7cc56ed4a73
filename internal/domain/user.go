package domain

// User represents a registered user in the system.
//
// Password holds the credential exactly as the caller supplied it; hashing is
// the service layer's job, and the persistence layer treats it as opaque.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
}
