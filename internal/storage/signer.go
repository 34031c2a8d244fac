package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// URLSigner mints and verifies expiring HMAC signatures over storage paths,
// used by the FileStore to emulate object-store signed URLs locally.
type URLSigner struct {
	secret []byte
}

func NewURLSigner(secret string) (*URLSigner, error) {
	if secret == "" {
		return nil, errors.New("storage: signing secret is required")
	}
	return &URLSigner{secret: []byte(secret)}, nil
}

// Sign returns the expiry unix timestamp and signature for path with the
// given ttl, measured from now.
func (s *URLSigner) Sign(path string, ttl time.Duration) (int64, string) {
	exp := time.Now().Add(ttl).Unix()
	return exp, s.signature(path, exp)
}

// Verify checks the signature and expiry for path.
func (s *URLSigner) Verify(path string, exp int64, sig string) error {
	if time.Now().Unix() > exp {
		return errors.New("storage: signed url expired")
	}
	expected := s.signature(path, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return errors.New("storage: invalid signature")
	}
	return nil
}

func (s *URLSigner) signature(path string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%s", path, strconv.FormatInt(exp, 10))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
