package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/engine"
)

// resolveID expands a short ID prefix, as shown in table output, to the one
// full ID it names.
func resolveID(prefix string, ids []string, kind string) (string, error) {
	var found []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}

	switch len(found) {
	case 0:
		return "", common.NewUserError(fmt.Sprintf("no %s matches %q", kind, prefix), common.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return "", common.NewUserError(fmt.Sprintf("%q matches %d %ss, use a longer ID", prefix, len(found), kind), nil)
	}
}

func resolvePatternID(ctx context.Context, eng *engine.Engine, spaceID, prefix string) (string, error) {
	patterns, err := eng.Patterns(ctx, spaceID)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(patterns))
	for i, p := range patterns {
		ids[i] = p.ID
	}
	return resolveID(prefix, ids, "pattern")
}

func resolveSubscriptionID(ctx context.Context, eng *engine.Engine, spaceID, prefix string) (string, error) {
	report, err := eng.SubscriptionInsights(ctx, spaceID, time.Now())
	if err != nil {
		return "", err
	}
	ids := make([]string, len(report.Insights))
	for i, in := range report.Insights {
		ids[i] = in.ID
	}
	return resolveID(prefix, ids, "subscription")
}
