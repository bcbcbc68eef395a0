package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of a plaintext password using the
// given cost. The plaintext is never stored or logged; bcrypt salts the
// hash internally so equal passwords produce distinct hashes. An empty
// plaintext is a caller error and yields ErrInvalidInput.
func HashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return "", ErrInvalidInput
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt hash against a plaintext password.
// It never returns an error on mismatch, only false; bcrypt performs the
// comparison in constant time relative to the hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
