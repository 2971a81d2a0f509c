package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/rs/zerolog/log"
)

// ProductCache caché de lectura del catálogo (búsqueda por código de barras en el POS).
type ProductCache interface {
	Get(ctx context.Context, key string) (*entity.Product, bool, error)
	Set(ctx context.Context, key string, product *entity.Product) error
	Delete(ctx context.Context, keys ...string) error
}

func productIDKey(id string) string           { return "product:id:" + id }
func productBarcodeKey(barcode string) string { return "product:barcode:" + barcode }

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía lotes.
type ProductUseCase struct {
	repo  repository.ProductRepository
	cache ProductCache
}

// NewProductUseCase construye el caso de uso. cache puede ser un no-op.
func NewProductUseCase(repo repository.ProductRepository, cache ProductCache) *ProductUseCase {
	return &ProductUseCase{repo: repo, cache: cache}
}

// Create crea un nuevo producto activo.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es obligatorio")
	}
	if !in.SalePrice.IsPositive() {
		return nil, domain.Invalid("sale_price", "debe ser mayor que cero")
	}
	if in.CostPrice.IsNegative() || in.WholesalePrice.IsNegative() {
		return nil, domain.Invalid("cost_price/wholesale_price", "no pueden ser negativos")
	}
	barcode := strings.TrimSpace(in.Barcode)
	if barcode != "" {
		existing, err := uc.repo.GetByBarcode(ctx, barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrConflict
		}
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Name:           name,
		Barcode:        barcode,
		Category:       in.Category,
		Description:    in.Description,
		CostPrice:      in.CostPrice.Round(2),
		SalePrice:      in.SalePrice.Round(2),
		WholesalePrice: in.WholesalePrice.Round(2),
		RequiresLot:    in.RequiresLot,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// GetByID obtiene un producto por ID (caché primero).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.cached(ctx, productIDKey(id), func() (*entity.Product, error) {
		return uc.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", id)
	}
	return dto.NewProductResponse(p), nil
}

// GetByBarcode búsqueda del POS por código de barras (caché primero).
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	if barcode == "" {
		return nil, domain.Invalid("barcode", "es obligatorio")
	}
	p, err := uc.cached(ctx, productBarcodeKey(barcode), func() (*entity.Product, error) {
		return uc.repo.GetByBarcode(ctx, barcode)
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", barcode)
	}
	return dto.NewProductResponse(p), nil
}

// cached lectura cache-aside. Un fallo de caché nunca bloquea la lectura desde la DB.
func (uc *ProductUseCase) cached(ctx context.Context, key string, load func() (*entity.Product, error)) (*entity.Product, error) {
	if p, ok, err := uc.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("caché de productos no disponible")
	} else if ok {
		return p, nil
	}
	p, err := load()
	if err != nil || p == nil {
		return p, err
	}
	if err := uc.cache.Set(ctx, key, p); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("no se pudo escribir en caché")
	}
	return p, nil
}

// List lista productos con filtros.
func (uc *ProductUseCase) List(ctx context.Context, filter entity.ProductFilter) (*dto.ProductListResponse, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items: make([]*dto.ProductResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, p := range list {
		out.Items = append(out.Items, dto.NewProductResponse(p))
	}
	return out, nil
}

// Update aplica un patch tipado. Invalida las entradas de caché del producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	patch := in.Patch()
	if patch.IsEmpty() {
		return nil, domain.Invalid("", "no hay campos para actualizar")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Invalid("name", "no puede quedar vacío")
	}
	if patch.SalePrice != nil && !patch.SalePrice.IsPositive() {
		return nil, domain.Invalid("sale_price", "debe ser mayor que cero")
	}
	if (patch.CostPrice != nil && patch.CostPrice.IsNegative()) || (patch.WholesalePrice != nil && patch.WholesalePrice.IsNegative()) {
		return nil, domain.Invalid("cost_price/wholesale_price", "no pueden ser negativos")
	}

	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	oldBarcode := product.Barcode
	if patch.Barcode != nil && *patch.Barcode != "" && *patch.Barcode != oldBarcode {
		existing, err := uc.repo.GetByBarcode(ctx, *patch.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrConflict
		}
	}
	product.Apply(patch)
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	keys := []string{productIDKey(id)}
	if oldBarcode != "" {
		keys = append(keys, productBarcodeKey(oldBarcode))
	}
	if product.Barcode != "" && product.Barcode != oldBarcode {
		keys = append(keys, productBarcodeKey(product.Barcode))
	}
	if err := uc.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Str("product_id", id).Msg("no se pudo invalidar la caché")
	}
	return dto.NewProductResponse(product), nil
}
