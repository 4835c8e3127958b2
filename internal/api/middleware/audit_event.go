package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/evidentia/evidentia-backend/internal/audit"
)

type actorContextKey struct{}

// WithActor attaches the authenticated actor to the request context. The
// audit event middleware picks it up; requests without one are recorded as
// unidentified requestors.
func WithActor(ctx context.Context, actor audit.ActorIdentity) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromRequest returns the actor recorded for the request, falling back
// to an unidentified requestor carrying only the source address.
func ActorFromRequest(r *http.Request) audit.ActorIdentity {
	if actor, ok := r.Context().Value(actorContextKey{}).(audit.ActorIdentity); ok {
		return actor
	}
	return audit.ActorIdentity{
		IDType:   audit.IdentityUnidentified,
		SourceIP: sourceIP(r),
		Username: audit.UnidentifiedUser,
	}
}

// AuditEvent returns middleware that writes one application audit event per
// request. The event type comes from the matched route's name, so routes and
// the event taxonomy stay in lockstep.
func AuditEvent(writer audit.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if writer == nil {
				return
			}

			result := audit.ResultSuccess
			if rec.status >= 400 {
				result = audit.ResultFailure
			}

			vars := mux.Vars(r)
			event := &audit.CJISAuditEventBody{
				DateTime:        time.Now().UTC().Format(time.RFC3339),
				RequestPath:     r.URL.Path,
				SourceComponent: audit.SourceAPIGateway,
				EventType:       eventTypeForRoute(r),
				ActorIdentity:   ActorFromRequest(r),
				Result:          result,
				CaseID:          vars["caseId"],
				FileID:          vars["fileId"],
				DataVaultID:     vars["dataVaultId"],
				TargetUserID:    vars["userId"],
				EventID:         uuid.New().String(),
			}
			// The writer decides whether a write failure is fatal; here it
			// never blocks the response, which has already been sent.
			writer.Write(r.Context(), event)
		})
	}
}

// eventTypeForRoute maps the matched route name onto the event taxonomy.
// Route names are chosen to be valid event type values.
func eventTypeForRoute(r *http.Request) audit.EventType {
	route := mux.CurrentRoute(r)
	if route == nil {
		return audit.EventUnknown
	}
	name := route.GetName()
	if name == "" || name == "HealthCheck" {
		return audit.EventGetAvailableEndpoints
	}
	return audit.EventType(name)
}

func sourceIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
