package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// ValidateSignature verifies the x-line-signature header against the raw
// request body using the channel secret. LINE signs the body with
// HMAC-SHA256 and sends the digest base64-encoded.
func ValidateSignature(channelSecret string, signature string, body []byte) error {
	if channelSecret == "" {
		return fmt.Errorf("channel secret not configured")
	}
	if signature == "" {
		return fmt.Errorf("missing signature header")
	}

	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	expected := mac.Sum(nil)

	if !hmac.Equal(decoded, expected) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}
