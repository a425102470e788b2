package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/allan-kirui57/pynade-hub/internal/api/dto"
	"github.com/allan-kirui57/pynade-hub/internal/domain"
	"github.com/allan-kirui57/pynade-hub/internal/service"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

func (s *Server) registerProductRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listProducts",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/products",
		Summary:     "List products",
		Description: "Returns products filtered by search, category, tag, pricing, open source and featured flags",
		Tags:        []string{"Products"},
	}, s.handleListProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "productShowcase",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/products/showcase",
		Summary:     "Product showcase",
		Description: "Returns the featured, popular, newest and open source side lists plus top categories",
		Tags:        []string{"Products"},
	}, s.handleProductShowcase)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProduct",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/products/{slug}",
		Summary:     "Get product",
		Tags:        []string{"Products"},
	}, s.handleGetProductBySlug)
}

func (s *Server) registerAdminProductRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListProducts",
		Method:      http.MethodGet,
		Path:        adminPrefix + "/products",
		Summary:     "List products",
		Tags:        []string{"Admin: Products"},
	}, s.handleAdminListProducts)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createProduct",
		Method:        http.MethodPost,
		Path:          adminPrefix + "/products",
		Summary:       "Create product",
		Description:   "Creates a product with its categories and tags",
		Tags:          []string{"Admin: Products"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminGetProduct",
		Method:      http.MethodGet,
		Path:        adminPrefix + "/products/{id}",
		Summary:     "Get product by ID",
		Tags:        []string{"Admin: Products"},
	}, s.handleAdminGetProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProduct",
		Method:      http.MethodPut,
		Path:        adminPrefix + "/products/{id}",
		Summary:     "Update product",
		Description: "Replaces a product. Repository stats are kept; omitted taxonomy fields are left unchanged",
		Tags:        []string{"Admin: Products"},
	}, s.handleUpdateProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteProduct",
		Method:      http.MethodDelete,
		Path:        adminPrefix + "/products/{id}",
		Summary:     "Delete product",
		Tags:        []string{"Admin: Products"},
	}, s.handleDeleteProduct)
}

// === DTOs ===

// ListProductsInput contains parameters for listing products.
type ListProductsInput struct {
	ContentQuery
	Pricing    string `query:"pricing" doc:"Free, Freemium, Paid or Subscription (case-insensitive)"`
	OpenSource string `query:"open_source" doc:"Only open source (1) or only closed source (0) products"`
}

func (in *ListProductsInput) values() url.Values {
	v := in.ContentQuery.values()
	if in.Pricing != "" {
		v.Set("pricing", in.Pricing)
	}
	if in.OpenSource != "" {
		v.Set("open_source", in.OpenSource)
	}
	return v
}

// ProductListOutput wraps a page of products for Huma.
type ProductListOutput struct {
	Body dto.ListResponse[*domain.Product]
}

// ProductOutput wraps a product for Huma.
type ProductOutput struct {
	Body *domain.Product
}

// ProductDetailOutput wraps a product and its comments.
type ProductDetailOutput struct {
	Body *service.ProductDetail
}

// ShowcaseOutput wraps the product showcase for Huma.
type ShowcaseOutput struct {
	Body *domain.ProductShowcase
}

// GetProductInput contains parameters for getting a product by slug.
type GetProductInput struct {
	dto.SlugParam
}

// CreateProductInput wraps the create product request for Huma.
type CreateProductInput struct {
	Body service.ProductRequest
}

// UpdateProductInput wraps the update product request for Huma.
type UpdateProductInput struct {
	dto.IDParam
	Body service.ProductRequest
}

// === Handlers ===

func (s *Server) handleListProducts(ctx context.Context, input *ListProductsInput) (*ProductListOutput, error) {
	return s.listProducts(ctx, input, apiPrefix+"/products", store.ProductPageSize)
}

func (s *Server) handleAdminListProducts(ctx context.Context, input *ListProductsInput) (*ProductListOutput, error) {
	return s.listProducts(ctx, input, adminPrefix+"/products", store.AdminPageSize)
}

func (s *Server) listProducts(ctx context.Context, input *ListProductsInput, base string, pageSize int) (*ProductListOutput, error) {
	filter := store.ParseProductFilter(input.values())

	tagID, ok, err := s.resolveTag(ctx, input.Tag)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &ProductListOutput{Body: dto.EmptyList[*domain.Product](pageSize, base, filter.Values())}, nil
	}
	filter.TagID = tagID

	page, err := s.services.Content.ListProducts(ctx, filter, store.NewPageRequest(input.Page, pageSize))
	if err != nil {
		return nil, err
	}
	return &ProductListOutput{Body: dto.NewListResponse(page, base, filter.Values())}, nil
}

func (s *Server) handleProductShowcase(ctx context.Context, _ *struct{}) (*ShowcaseOutput, error) {
	sc, err := s.services.Content.ProductShowcase(ctx)
	if err != nil {
		return nil, err
	}
	return &ShowcaseOutput{Body: sc}, nil
}

func (s *Server) handleGetProductBySlug(ctx context.Context, input *GetProductInput) (*ProductDetailOutput, error) {
	detail, err := s.services.Content.GetProductBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &ProductDetailOutput{Body: detail}, nil
}

func (s *Server) handleAdminGetProduct(ctx context.Context, input *dto.IDParam) (*ProductOutput, error) {
	p, err := s.services.Content.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: p}, nil
}

func (s *Server) handleCreateProduct(ctx context.Context, input *CreateProductInput) (*ProductOutput, error) {
	p, err := s.services.Content.CreateProduct(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: p}, nil
}

func (s *Server) handleUpdateProduct(ctx context.Context, input *UpdateProductInput) (*ProductOutput, error) {
	p, err := s.services.Content.UpdateProduct(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: p}, nil
}

func (s *Server) handleDeleteProduct(ctx context.Context, input *dto.IDParam) (*dto.MessageOutput, error) {
	if err := s.services.Content.DeleteProduct(ctx, input.ID); err != nil {
		return nil, err
	}
	return dto.Message("Product deleted"), nil
}
