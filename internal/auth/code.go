package auth

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// NewConfirmationCode generates an opaque confirmation code for the signup
// flow. A UUID gives us 122 bits of randomness, which is plenty for a code
// that also expires.
func NewConfirmationCode() string {
	return uuid.New().String()
}

// HashCode creates a bcrypt hash from the given plaintext confirmation code.
func HashCode(code string) (string, error) {
	// the cost determines the computational complexity of the hashing process
	// default cost is 10, adjustable based on security/performance needs
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyCode checks if the provided plaintext code matches the stored bcrypt hash.
func VerifyCode(hashedCode, providedCode string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(providedCode))
}
