package model

// User represents an application user record as stored in the `users`
// table. The password hash is opaque to everything but the utils
// package; handlers define separate response types with JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique username.
//  PasswordHash – bcrypt hashed password.
type User struct {
	ID           uint64 // users.id
	Username     string // users.username
	PasswordHash string // users.password_hash
}
