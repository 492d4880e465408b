package cryptopay

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // the processor's wire protocol mandates MD5
	"encoding/base64"
	"encoding/hex"
)

// sign computes the processor's signature scheme over a JSON body:
// hex(md5(base64(body) + apiKey)). MD5 is what the processor verifies
// against; replacing it would break signature compatibility.
func sign(body []byte, apiKey string) string {
	encoded := base64.StdEncoding.EncodeToString(body)
	digest := md5.Sum([]byte(encoded + apiKey)) //nolint:gosec // protocol-mandated
	return hex.EncodeToString(digest[:])
}

// signatureEqual compares signatures in constant time.
func signatureEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
