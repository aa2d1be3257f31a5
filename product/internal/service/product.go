package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verdantis/storefront/internal/log"
	"github.com/verdantis/storefront/product/internal/otel"
	"github.com/verdantis/storefront/product/internal/repository"
	"github.com/verdantis/storefront/product/pkg/request"
	"github.com/verdantis/storefront/product/pkg/response"
)

type ProductService struct {
	repository repository.ProductRepository
}

func NewProductService(repository repository.ProductRepository) ProductService {
	return ProductService{repository: repository}
}

func (svc ProductService) FindProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	products, err := svc.repository.FindProducts(c)
	if err != nil {
		return nil, err
	}

	res := make([]response.Product, 0, len(products))
	for _, product := range products {
		variants, err := svc.repository.FindVariantsByProductId(c, product.ID)
		if err != nil {
			return nil, err
		}
		res = append(res, product.Response(variants))
	}
	return res, nil
}

func (svc ProductService) FindProductById(
	c context.Context,
	id uuid.UUID,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	product, err := svc.repository.FindProductById(c, id)
	if err != nil {
		return response.Product{}, err
	}
	variants, err := svc.repository.FindVariantsByProductId(c, product.ID)
	if err != nil {
		return response.Product{}, err
	}
	return product.Response(variants), nil
}

func (svc ProductService) InsertProduct(
	c context.Context,
	param request.Product,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService InsertProduct").
		Str("productName", param.Name).
		Logger()

	product, variants, err := svc.repository.InsertProduct(c, param)
	if err != nil {
		return response.Product{}, err
	}
	logger.Info().Str(log.KeyProductID, product.ID.String()).Msg("inserted product")
	return product.Response(variants), nil
}

func (svc ProductService) UpdateProduct(
	c context.Context,
	id uuid.UUID,
	param request.UpdateProduct,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService UpdateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService UpdateProduct").
		Str(log.KeyProductID, id.String()).
		Logger()

	product, err := svc.repository.UpdateProduct(c, id, param)
	if err != nil {
		return response.Product{}, err
	}
	variants, err := svc.repository.FindVariantsByProductId(c, product.ID)
	if err != nil {
		return response.Product{}, err
	}
	logger.Info().Msg("updated product")
	return product.Response(variants), nil
}

func (svc ProductService) RemoveProduct(c context.Context, id uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "ProductService RemoveProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService RemoveProduct").
		Str(log.KeyProductID, id.String()).
		Logger()

	if err := svc.repository.RemoveProduct(c, id); err != nil {
		return err
	}
	logger.Info().Msg("removed product")
	return nil
}
