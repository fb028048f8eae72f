// Package telegram talks to the host messaging platform: it reads the Mini
// App init data and creates invoices the web page can open.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

var (
	ErrInvalidInitData = errors.New("invalid init data")
	ErrInitDataExpired = errors.New("init data expired")
)

// User is the optional identity the platform hands to the Mini App.
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

type InitData struct {
	QueryID  string    `json:"query_id,omitempty"`
	User     *User     `json:"user,omitempty"`
	AuthDate time.Time `json:"auth_date"`
	Hash     string    `json:"hash"`
}

// ParseInitData decodes the raw query string without checking its signature.
func ParseInitData(raw string) (*InitData, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInitData, err.Error())
	}

	data := &InitData{
		QueryID: values.Get("query_id"),
		Hash:    values.Get("hash"),
	}

	if v := values.Get("auth_date"); v != "" {
		secs, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidInitData, "auth_date is not a unix timestamp")
		}
		data.AuthDate = time.Unix(secs, 0)
	}

	if v := values.Get("user"); v != "" {
		var user User
		if err := json.Unmarshal([]byte(v), &user); err != nil {
			return nil, errors.Wrap(ErrInvalidInitData, "user is not valid json")
		}
		data.User = &user
	}

	return data, nil
}

// ValidateInitData parses raw and verifies its hash against botToken. A
// non-zero maxAge also rejects data signed more than maxAge before now.
func ValidateInitData(raw, botToken string, maxAge time.Duration, now time.Time) (*InitData, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInitData, err.Error())
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, errors.Wrap(ErrInvalidInitData, "hash is missing")
	}

	expected := Sign(values, botToken)
	if !hmac.Equal([]byte(hash), []byte(expected)) {
		return nil, errors.Wrap(ErrInvalidInitData, "hash mismatch")
	}

	data, err := ParseInitData(raw)
	if err != nil {
		return nil, err
	}

	if maxAge > 0 && now.Sub(data.AuthDate) > maxAge {
		return nil, ErrInitDataExpired
	}

	return data, nil
}

// Sign computes the init data hash for values, ignoring any hash already in
// them.
func Sign(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
