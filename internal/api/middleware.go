// Package api implements the Dagaz REST API using chi.
package api

import (
	"crypto/subtle"
	"net/http"
)

// passcodeCookie is the long-lived cookie the client sets after unlocking.
const passcodeCookie = "desktop_passcode"

// PasscodeMiddleware returns middleware that gates the API behind the shared
// desktop passcode. If enabled is false, all requests pass through (disabled
// mode). If enabled is true, requests must carry the passcode either in the
// "X-Passcode" header or in the desktop_passcode cookie.
func PasscodeMiddleware(enabled bool, passcode string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			got := r.Header.Get("X-Passcode")
			if got == "" {
				if c, err := r.Cookie(passcodeCookie); err == nil {
					got = c.Value
				}
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(passcode)) != 1 {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
