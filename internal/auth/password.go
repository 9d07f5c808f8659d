package auth

import "golang.org/x/crypto/bcrypt"

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Lock guards the workspace with one shared password. The plaintext is
// hashed once and dropped.
type Lock struct {
	hash string
}

func NewLock(password string) (*Lock, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &Lock{hash: hash}, nil
}

func (l *Lock) Check(password string) bool {
	return ComparePassword(l.hash, password)
}
