package cache

import (
	"context"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// NoopProductCache se usa cuando REDIS_ADDR no está configurado: nunca acierta.
type NoopProductCache struct{}

func (NoopProductCache) Get(context.Context, string) (*entity.Product, bool, error) {
	return nil, false, nil
}

func (NoopProductCache) Set(context.Context, string, *entity.Product) error { return nil }

func (NoopProductCache) Delete(context.Context, ...string) error { return nil }
