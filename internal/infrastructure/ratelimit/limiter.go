// Package ratelimit contadores de ventana fija en Redis, compartidos entre instancias.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/telco-selfcare-api/internal/application/auth"
)

// hitScript INCR y PEXPIRE en una sola operación atómica. Fija el TTL siempre que
// la clave no lo tenga, así una clave nunca queda sin vencimiento.
var hitScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// Limiter ventana fija por clave: la ventana se abre con el primer intento.
type Limiter struct {
	client *redis.Client
	prefix string
}

var _ auth.AttemptCounter = (*Limiter)(nil)

// NewClient abre el cliente a partir de REDIS_URL y comprueba la conexión.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: REDIS_URL inválida: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ratelimit: ping redis: %w", err)
	}
	return client, nil
}

// New construye el limitador; prefix separa los espacios de claves (p. ej. "rl:auth").
func New(client *redis.Client, prefix string) *Limiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &Limiter{client: client, prefix: prefix}
}

func (l *Limiter) key(k string) string { return l.prefix + ":" + k }

// Hit suma un intento y devuelve el total de la ventana. La ventana empieza con el primer intento.
func (l *Limiter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := hitScript.Run(ctx, l.client, []string{l.key(key)}, window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("ratelimit: redis: %w", err)
	}
	return n, nil
}

// Allow registra la petición y dice si sigue dentro de limit. Ante error de Redis devuelve true (fail open) junto al error.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := l.Hit(ctx, key, window)
	if err != nil {
		return true, err
	}
	return n <= int64(limit), nil
}

// Attempts devuelve el contador actual (0 si no existe).
func (l *Limiter) Attempts(ctx context.Context, key string) (int64, error) {
	n, err := l.client.Get(ctx, l.key(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ratelimit: redis: %w", err)
	}
	return n, nil
}

// TTL tiempo hasta que se reinicia la ventana.
func (l *Limiter) TTL(ctx context.Context, key string) (time.Duration, error) {
	return l.client.TTL(ctx, l.key(key)).Result()
}

// Reset borra el contador.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.key(key)).Err()
}
