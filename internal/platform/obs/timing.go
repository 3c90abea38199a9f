package obs

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type tripKey struct{}

// WithTripID tags ctx so that every timed operation under it names the
// trip session it ran for.
func WithTripID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, tripKey{}, id)
}

func TripID(ctx context.Context) string {
	id, _ := ctx.Value(tripKey{}).(string)
	return id
}

// Time logs the duration of op when the returned func is deferred with a
// pointer to the caller's named error result. The line carries the request
// id and, when set, the trip id.
func Time(ctx context.Context, op string) func(errp *error) {
	start := time.Now()

	var b strings.Builder
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		b.WriteString("req_id=" + reqID + " ")
	}
	if tripID := TripID(ctx); tripID != "" {
		b.WriteString("trip=" + tripID + " ")
	}
	b.WriteString("op=" + op)
	prefix := b.String()

	return func(errp *error) {
		ms := time.Since(start).Milliseconds()
		if errp != nil && *errp != nil {
			log.Printf("%s dur=%dms err=%v", prefix, ms, *errp)
			return
		}
		log.Printf("%s dur=%dms", prefix, ms)
	}
}
