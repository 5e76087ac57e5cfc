package identity

import (
	"net/http"

	"github.com/marufbinsalim/walletree/internal/app/system/apperr"
	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// Middleware attaches the verified identity to the request context.
//
// Requests without an Authorization header pass through anonymously so that
// read operations can answer with an "absent" result. A header that is
// present but fails verification is rejected with 401.
func Middleware(v *Verifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := ExtractBearer(r.Header.Get("Authorization"))
			if err == ErrNoToken {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				httpjson.Error(w, r, log, apperr.ErrUnauthenticated)
				return
			}

			id, err := v.Verify(raw)
			if err != nil {
				log.Debug("token rejected", zap.Error(err))
				httpjson.Error(w, r, log, apperr.ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
