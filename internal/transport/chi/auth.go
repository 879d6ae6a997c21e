package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecbrowse/internal/logger"
)

// protectedPrefix marks the listing API. Probes and scrapes stay open.
const protectedPrefix = "/api/"

// APIKeyAuth guards the listing API with static bearer keys. With no
// non-empty key configured it returns next unchanged.
func APIKeyAuth(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, protectedPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			token, reason := bearerToken(r.Header.Get("Authorization"))
			if reason == "" && !knownKey(keys, token) {
				reason = "invalid api key"
			}
			if reason != "" {
				logger.FromContext(r.Context()).Info("listing request rejected",
					zap.String("path", r.URL.Path), zap.String("reason", reason))
				w.Header().Set("WWW-Authenticate", `Bearer realm="vecbrowse"`)
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, reason)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the credential from an Authorization header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (token, reason string) {
	if header == "" {
		return "", "missing authorization header"
	}
	scheme, cred, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "authorization header must use Bearer scheme"
	}
	return strings.TrimSpace(cred), ""
}

func knownKey(keys [][]byte, token string) bool {
	got := []byte(token)
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, got)
	}
	return found == 1
}
