// Package cache provides weather condition caching backends.
package cache

import (
	"context"
	"time"

	"skywatch.app/models"
)

// ConditionsCache defines the interface for caching current weather conditions
type ConditionsCache interface {
	Get(ctx context.Context, key string) (*models.CurrentConditions, bool)
	Set(ctx context.Context, key string, value *models.CurrentConditions, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
}
