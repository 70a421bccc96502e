// Package domain contains the core business entities and interfaces.
package domain

// Account is a full credential record: a built-in account defined at
// process start, or a registered account persisted under the
// "registeredUsers" key. Built-in accounts are immutable.
type Account struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
}

// User is the password-free projection of an Account. It is the value
// carried by the active session and attributed to new posts.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// User returns the projection of the account without its password.
func (a Account) User() User {
	return User{
		ID:       a.ID,
		Email:    a.Email,
		Username: a.Username,
		Avatar:   a.Avatar,
	}
}
