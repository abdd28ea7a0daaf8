package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/sharedlist-go/internal/api/apierr"
	"github.com/mcoot/sharedlist-go/internal/model"
)

type contextKey string

const callerContextKey contextKey = "caller"

// Header names carrying the client-generated participant identity. Handles
// are minted by the client and never verified; possession of a handle is
// the whole identity model.
const (
	HeaderParticipantHandle = "X-Participant-Handle"
	HeaderParticipantName   = "X-Participant-Name"
	HeaderGuestLink         = "X-Guest-Link"
)

// Caller is the identity extracted from a request. GuestLink is set when
// the request arrived through a guest link, which pins the caller to the
// guest role regardless of any admin registration under the same handle.
type Caller struct {
	Handle      model.ParticipantHandle
	DisplayName string
	GuestLink   model.GuestLinkID
}

// ViaGuestLink reports whether the caller entered through a guest link
func (c *Caller) ViaGuestLink() bool {
	return c.GuestLink != ""
}

// Identity creates middleware that requires a participant handle
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := extractCaller(r)
			if caller.Handle == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), callerContextKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalIdentity extracts the caller if present but doesn't require it
func OptionalIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := extractCaller(r)
			if caller.Handle != "" {
				ctx := context.WithValue(r.Context(), callerContextKey, caller)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractCaller(r *http.Request) *Caller {
	return &Caller{
		Handle:      model.ParticipantHandle(strings.TrimSpace(r.Header.Get(HeaderParticipantHandle))),
		DisplayName: strings.TrimSpace(r.Header.Get(HeaderParticipantName)),
		GuestLink:   model.GuestLinkID(strings.TrimSpace(r.Header.Get(HeaderGuestLink))),
	}
}

// GetCaller returns the caller from the request context
func GetCaller(ctx context.Context) *Caller {
	caller, _ := ctx.Value(callerContextKey).(*Caller)
	return caller
}

// MustGetCaller returns the caller or panics
func MustGetCaller(ctx context.Context) *Caller {
	caller := GetCaller(ctx)
	if caller == nil {
		panic("no caller in context - identity middleware not applied?")
	}
	return caller
}
