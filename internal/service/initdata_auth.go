package service

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/url"
	"sort"
	"strings"

	"webapp_validator/internal/domain"
)

const (
	// webAppDataLabel is the fixed HMAC key used to derive the secret key
	// from the bot token.
	webAppDataLabel = "WebAppData"

	hashField = "hash"
	userField = "user"
)

// Validator checks initData payloads signed for a single bot token.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	botToken string
}

func NewValidator(botToken string) *Validator {
	return &Validator{botToken: botToken}
}

// Validate verifies rawInitData against the validator's bot token.
func (v *Validator) Validate(rawInitData string) domain.VerificationResult {
	return ValidateInitData(rawInitData, v.botToken)
}

// ValidateInitData verifies the signature of a mini-app initData string and,
// when it matches, decodes the user it carries.
func ValidateInitData(rawInitData, botToken string) domain.VerificationResult {
	if rawInitData == "" {
		return domain.VerificationResult{Status: domain.StatusMissingPayload}
	}

	fields, received, ok := ParseFields(rawInitData)
	if !ok {
		return domain.VerificationResult{Status: domain.StatusMissingSignature}
	}

	expected := ExpectedSignature(fields, botToken)
	if !secureCompare(expected, received) {
		return domain.VerificationResult{Status: domain.StatusInvalid}
	}

	return domain.VerificationResult{
		Status: domain.StatusValid,
		User:   extractUser(fields),
	}
}

// ParseFields splits rawInitData into decoded fields and pulls out the hash.
// Segments without '=' or with undecodable escapes are dropped; for repeated
// keys the first occurrence wins. hasHash is false when no hash was present.
func ParseFields(rawInitData string) (fields map[string]string, hash string, hasHash bool) {
	fields = make(map[string]string)
	for _, pair := range strings.Split(rawInitData, "&") {
		rawKey, rawValue, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		if _, dup := fields[key]; dup {
			continue
		}
		fields[key] = value
	}

	hash, hasHash = fields[hashField]
	delete(fields, hashField)
	return fields, hash, hasHash
}

// DataCheckString joins "key=value" lines in byte order. Any hash entry in
// fields is ignored.
func DataCheckString(fields map[string]string) string {
	pairs := make([]string, 0, len(fields))
	for k, v := range fields {
		if k == hashField {
			continue
		}
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "\n")
}

// DeriveSecretKey returns HMAC-SHA256 of the bot token keyed by "WebAppData".
func DeriveSecretKey(botToken string) []byte {
	h := hmac.New(sha256.New, []byte(webAppDataLabel))
	h.Write([]byte(botToken))
	return h.Sum(nil)
}

// ExpectedSignature is the lowercase hex signature the host would attach to
// fields when signing with botToken.
func ExpectedSignature(fields map[string]string, botToken string) string {
	h := hmac.New(sha256.New, DeriveSecretKey(botToken))
	h.Write([]byte(DataCheckString(fields)))
	return hex.EncodeToString(h.Sum(nil))
}

// SignFields encodes fields as a query string and appends its hash, producing
// initData that ValidateInitData accepts for the same token.
func SignFields(fields map[string]string, botToken string) string {
	values := url.Values{}
	for k, v := range fields {
		if k == hashField {
			continue
		}
		values.Set(k, v)
	}
	encoded := values.Encode()
	sig := hashField + "=" + ExpectedSignature(fields, botToken)
	if encoded == "" {
		return sig
	}
	return encoded + "&" + sig
}

// secureCompare leaks only whether the lengths differ; equal-length inputs
// take the same time wherever they first differ.
func secureCompare(expected, received string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(received)) == 1
}

// extractUser never fails: a missing or malformed user field gives an empty
// record.
func extractUser(fields map[string]string) domain.UserRecord {
	raw, ok := fields[userField]
	if !ok {
		return domain.UserRecord{}
	}
	if decoded, err := url.QueryUnescape(raw); err == nil {
		raw = decoded
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return domain.UserRecord{}
	}
	if _, err := dec.Token(); err != io.EOF {
		return domain.UserRecord{}
	}
	return domain.NewUserRecord(obj)
}
