package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/saturnines/catalog-export/pkg/errors"
)

// ContentType is sent with every request and is part of the signed message.
const ContentType = "application/json; charset=utf-8"

// Handler defines the interface for auth handlers
type Handler interface {
	ApplyAuth(req *http.Request) error
}

// Sign returns base64(HMAC-SHA256(secretKey, message)).
func Sign(secretKey, message string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// CanonicalMessage builds the string the API expects to be signed.
// endpoint is the request path without the query string.
func CanonicalMessage(method, contentType, date, endpoint string) string {
	return method + "\n" + contentType + "\n" + date + "\n" + endpoint
}

// HMACAuth signs requests with the ApiAuth scheme:
//
//	Authorization: ApiAuth <tracker id>:<base64 digest>
type HMACAuth struct {
	TrackerID string
	APIKey    string

	// Now returns the time put in the Date header. Defaults to time.Now.
	Now func() time.Time
}

// NewHMACAuth creates a new HMAC authentication handler
func NewHMACAuth(trackerID, apiKey string) (*HMACAuth, error) {
	if trackerID == "" {
		return nil, errors.WrapError(
			fmt.Errorf("tracker id is required"),
			errors.ErrConfiguration,
			"create hmac auth",
		)
	}
	if apiKey == "" {
		return nil, errors.WrapError(
			fmt.Errorf("api key is required"),
			errors.ErrConfiguration,
			"create hmac auth",
		)
	}
	return &HMACAuth{
		TrackerID: trackerID,
		APIKey:    apiKey,
		Now:       time.Now,
	}, nil
}

// ApplyAuth sets the Content-Type, Date and Authorization headers.
func (a *HMACAuth) ApplyAuth(req *http.Request) error {
	if a.TrackerID == "" || a.APIKey == "" {
		return errors.WrapError(
			fmt.Errorf("tracker id and api key are required"),
			errors.ErrConfiguration,
			"apply hmac auth",
		)
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	date := now().UTC().Format(http.TimeFormat)

	digest := Sign(a.APIKey, CanonicalMessage(req.Method, ContentType, date, req.URL.Path))

	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("Date", date)
	req.Header.Set("Authorization", fmt.Sprintf("ApiAuth %s:%s", a.TrackerID, digest))

	return nil
}

// String returns a string representation of this auth method
func (a *HMACAuth) String() string {
	return fmt.Sprintf("HMACAuth(tracker: %s, key: [REDACTED])", a.TrackerID)
}
