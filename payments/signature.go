package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyWebhookSignature checks the x-chapa-signature header against an
// HMAC-SHA256 digest of the raw request body. It must be fed the exact bytes
// Chapa sent; re-serializing the parsed payload can change the byte layout
// and break the digest. A missing secret or signature always fails.
func VerifyWebhookSignature(secret string, payload []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
