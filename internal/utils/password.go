package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash of a signup password. The cost
// comes from BCRYPT_COST; values below bcrypt's minimum fall back to
// the library default so a misconfigured cost never weakens hashes.
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

// VerifyPassword reports whether plain matches the stored hash. The
// comparison is constant-time; a malformed hash simply fails to verify.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
