package httpapi

import (
	"context"

	"github.com/riskibarqy/football-api/internal/domain/user"
	"github.com/riskibarqy/football-api/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type principalKey struct{}

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}

// syncContext marks ctx as an API triggered sync and tags the handler span
// with the league and the admin who started it. leagueID 0 means the league
// is not known yet.
func syncContext(ctx context.Context, span trace.Span, leagueID int64) context.Context {
	attrs := make([]attribute.KeyValue, 0, 2)
	if leagueID > 0 {
		attrs = append(attrs, attribute.Int64("football.league_id", leagueID))
	}
	if p, ok := principalFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("enduser.id", p.UserID))
	}
	span.SetAttributes(attrs...)

	return usecase.WithSyncTrigger(ctx, usecase.SyncTriggerAPI)
}
