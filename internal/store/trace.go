package store

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-qa-backend/internal/apperr"
)

const tracerName = "github.com/tbourn/go-qa-backend/internal/store"

// op brackets one store operation: it opens a span named store.<name> and
// returns a done func that counts the outcome, marks the span, and writes a
// debug line to the request-scoped logger (if any) carried by ctx.
//
// The span is only for observation; ctx cancellation never aborts the
// operation.
func op(ctx context.Context, collection, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	attrs = append(attrs, attribute.String("store.collection", collection))
	// Resolved per call so a provider installed after init is honored.
	ctx, span := otel.Tracer(tracerName).Start(ctx, "store."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, func(err error) {
		countOp(collection, name, err)

		lg := zerolog.Ctx(ctx)
		if err != nil {
			kind := apperr.KindOf(err)
			span.SetAttributes(attribute.String("error.kind", kind.String()))
			if kind == apperr.KindInternal {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			lg.Debug().Str("collection", collection).Str("op", name).Err(err).Msg("store op failed")
		} else {
			lg.Debug().Str("collection", collection).Str("op", name).Msg("store op")
		}
		span.End()
	}
}
