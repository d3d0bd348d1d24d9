package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash of plain at the configured cost.
// A cost below bcrypt's minimum falls back to the library default so a
// misconfigured BCRYPT_COST never weakens hashing.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// The comparison is constant time.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
