package alerts

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader is the HTTP header carrying the webhook payload signature.
const SignatureHeader = "X-Hydromon-Signature"

// SignPayload generates the signature header value for a webhook payload:
//
//	t=<unix>,v1=<hex hmac-sha256 of "<unix>.<payload>">
//
// The timestamp binds the signature to the delivery attempt, letting
// receivers reject replays outside their tolerance window.
func SignPayload(payload []byte, secret string, now time.Time) string {
	ts := now.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

// VerifySignature checks a signature header against the payload and secret,
// enforcing the given timestamp tolerance. Intended for receiver-side use
// and tests.
func VerifySignature(header string, payload []byte, secret string, now time.Time, tolerance time.Duration) bool {
	var ts int64
	var sig string
	for _, part := range strings.Split(header, ",") {
		switch {
		case strings.HasPrefix(part, "t="):
			v, err := strconv.ParseInt(part[2:], 10, 64)
			if err != nil {
				return false
			}
			ts = v
		case strings.HasPrefix(part, "v1="):
			sig = part[3:]
		}
	}
	if ts == 0 || sig == "" {
		return false
	}

	delta := now.Sub(time.Unix(ts, 0))
	if delta < -tolerance || delta > tolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}
