package hash

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// LegacyPrefix marks passwords written by the old storefront, which stored
// "hashed_" + plaintext instead of a real hash.
const LegacyPrefix = "hashed_"

var ErrEmptyPassword = errors.New("password is empty")

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	if IsLegacy(hash) {
		want := strings.TrimPrefix(hash, LegacyPrefix)
		return subtle.ConstantTimeCompare([]byte(want), []byte(password)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsLegacy reports whether the stored value needs rehashing after a
// successful login.
func IsLegacy(hash string) bool {
	return strings.HasPrefix(hash, LegacyPrefix)
}
