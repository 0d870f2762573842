package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindowCounter contador de ventana fija sobre Redis para rate limiting.
// El estado vive en Redis y se inyecta explícitamente: nada de contadores
// globales de proceso, y el límite se respeta entre múltiples instancias.
type FixedWindowCounter struct {
	client *redis.Client
	window time.Duration
}

// NewFixedWindowCounter construye el contador con la ventana dada.
func NewFixedWindowCounter(client *redis.Client, window time.Duration) *FixedWindowCounter {
	return &FixedWindowCounter{client: client, window: window}
}

// Incr incrementa el contador de la clave y devuelve el total de la ventana
// actual. El TTL se fija solo en el primer incremento (ExpireNX), de modo que
// la ventana no se renueva con cada petición.
func (c *FixedWindowCounter) Incr(ctx context.Context, key string) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, c.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val(), nil
}
