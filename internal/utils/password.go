package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the salted one-way hash stored in users.password_hash.
// The cost factor comes from configuration so tests can use the minimum.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword checks a login attempt against the stored hash. bcrypt's
// comparison is constant-time, so the result leaks nothing about the hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
