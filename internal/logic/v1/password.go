package v1

import "golang.org/x/crypto/bcrypt"

// hashCost is the bcrypt work factor. Each hash carries its own random salt,
// so hashing the same password twice yields different strings.
const hashCost = 12

// HashPassword applies a salted adaptive one-way hash to the plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash. It never
// fails for a well-formed hash: a mismatch is simply false.
func CheckPassword(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
