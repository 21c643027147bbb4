package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/petgateway/petgateway/internal/auth"
	"github.com/petgateway/petgateway/internal/metrics"
	apimodel "github.com/petgateway/petgateway/pkg/model"
)

// SignatureConfig holds configuration for the signature middleware.
type SignatureConfig struct {
	Logger   *slog.Logger
	Verifier *auth.Verifier
	Metrics  metrics.Recorder
	// Required rejects unsigned requests. When false, unsigned requests pass
	// through and signed ones are still verified.
	Required bool
}

// failureReasons labels verification failures for logs and metrics.
var failureReasons = []struct {
	err    error
	reason string
}{
	{auth.ErrMissingSignature, "missing_signature"},
	{auth.ErrMalformedSignature, "malformed_signature"},
	{auth.ErrScopeMismatch, "scope_mismatch"},
	{auth.ErrUnknownAccessKey, "unknown_access_key"},
	{auth.ErrSessionExpired, "session_expired"},
	{auth.ErrSignatureExpired, "signature_expired"},
	{auth.ErrTokenMismatch, "token_mismatch"},
	{auth.ErrSignatureMismatch, "signature_mismatch"},
}

func failureReason(err error) string {
	for _, f := range failureReasons {
		if errors.Is(err, f.err) {
			return f.reason
		}
	}
	return "internal"
}

// Signature returns a middleware that authenticates SigV4 signed requests
// against issued session credentials and puts the session in the context.
func Signature(cfg SignatureConfig) func(http.Handler) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Required && r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := cfg.Verifier.Verify(r)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					writeError(w, http.StatusRequestEntityTooLarge, apimodel.CodeRequestTooLarge, "Request body too large")
					return
				}

				reason := failureReason(err)
				cfg.Metrics.IncAuthFailure(reason)

				if reason == "internal" {
					cfg.Logger.Error("signature verification error",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeError(w, http.StatusInternalServerError, apimodel.CodeInternalError, "An internal error occurred")
					return
				}

				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", getClientIP(r)),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeSignatureError(w, err)
				return
			}

			cfg.Logger.Debug("authentication successful",
				slog.String("identity_id", session.IdentityID),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeSignatureError writes a 403. Expiry is reported distinctly so clients
// know to refresh credentials; everything else gets one message.
func writeSignatureError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrSignatureExpired):
		writeError(w, http.StatusForbidden, apimodel.CodeSignatureExpired, "Signature expired")
	case errors.Is(err, auth.ErrSessionExpired):
		writeError(w, http.StatusForbidden, apimodel.CodeSignatureExpired, "The security token included in the request is expired")
	default:
		writeError(w, http.StatusForbidden, apimodel.CodeUnauthorized, "The request signature is missing or invalid")
	}
}
