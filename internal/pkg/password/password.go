package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor for staff passwords
var Cost = 12

// dummyHash is compared against when no account matches a login, so
// unknown emails take as long as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("cinevault-dummy-password"), bcrypt.MinCost)

// Hash hashes password using bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	return string(bytes), err
}

// Verify compares password with hash
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyDummy burns a comparison for logins without a matching account
func VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
