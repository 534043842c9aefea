package app

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

const flashCookieName = "mailalert_flash"

const (
	flashSuccess = "success"
	flashError   = "error"
)

type flashMessage struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// flashCodec carries one-shot UI messages across a redirect in a cookie
// signed with the application secret key. Tampered cookies are dropped.
type flashCodec struct {
	key []byte
}

func newFlashCodec(secretKey string) *flashCodec {
	return &flashCodec{key: []byte(secretKey)}
}

func (c *flashCodec) push(w http.ResponseWriter, level, message string) {
	payload, err := json.Marshal([]flashMessage{{Level: level, Message: message}})
	if err != nil {
		return
	}
	value := base64.RawURLEncoding.EncodeToString(payload)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value + "." + c.sign(value),
		Path:     "/",
		HttpOnly: true,
	})
}

// pop reads the flash messages and clears the cookie.
func (c *flashCodec) pop(w http.ResponseWriter, r *http.Request) []flashMessage {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	value, mac, found := strings.Cut(cookie.Value, ".")
	if !found || !hmac.Equal([]byte(mac), []byte(c.sign(value))) {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var messages []flashMessage
	if err := json.Unmarshal(payload, &messages); err != nil {
		return nil
	}
	return messages
}

func (c *flashCodec) sign(value string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
