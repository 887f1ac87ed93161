package config

import (
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"net/http"
	"time"
)

// ToCookie renders a cookie from the template. MaxAge is counted from now
// and is at least one second for an expiry in the past.
func (ct *CookieTemplate) ToCookie(name, value string, expires, now time.Time) *http.Cookie {
	var sameSite http.SameSite
	switch ct.SameSite {
	case CookieSameSiteNone:
		sameSite = http.SameSiteNoneMode
	case CookieSameSiteLax:
		sameSite = http.SameSiteLaxMode
	case CookieSameSiteStrict:
		sameSite = http.SameSiteStrictMode
	}

	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     ct.Path,
		Domain:   ct.Domain,
		Secure:   ct.Secure,
		HttpOnly: ct.HTTPOnly,
		SameSite: sameSite,
	}

	if !expires.IsZero() {
		cookie.Expires = expires.UTC()
		cookie.MaxAge = max(int(expires.Sub(now).Seconds()), 1)
	}

	return cookie
}

// CookieHash returns the installation specific hash used in cookie names.
// An explicit value wins; otherwise it is derived from the site URL the same
// way for every replica of a deployment.
func (c *Cookies) CookieHash(siteURL string) string {
	if c.InstallationHash != "" {
		return c.InstallationHash
	}

	sum := md5.Sum([]byte(siteURL)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
