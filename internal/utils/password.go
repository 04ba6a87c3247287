package utils

import "golang.org/x/crypto/bcrypt"

// PasswordHashCost trades login latency against brute-force resistance; 12
// keeps a hash under ~300ms on current hardware.
const PasswordHashCost = 12

// HashPassword derives the bcrypt hash stored on the user record.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches the stored hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
