package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/datatypes"
)

// AdminProductUsecase は /api/admin/products の業務ロジックです。
type AdminProductUsecase struct {
	products repo.ProductRepository
}

func NewAdminProductUsecase(products repo.ProductRepository) *AdminProductUsecase {
	return &AdminProductUsecase{products: products}
}

type CreateProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	Sizes       json.RawMessage `json:"sizes"`
	Bestseller  bool            `json:"bestseller"`
}

type UpdateProductInput struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Price       *float64        `json:"price"`
	Image       *string         `json:"image"`
	Category    *string         `json:"category"`
	SubCategory *string         `json:"subCategory"`
	Sizes       json.RawMessage `json:"sizes"`
	Bestseller  *bool           `json:"bestseller"`
}

// sizesは空でないJSON配列であること
func validSizes(raw json.RawMessage) bool {
	var sizes []string
	if err := json.Unmarshal(raw, &sizes); err != nil {
		return false
	}
	return len(sizes) > 0
}

func (u *AdminProductUsecase) Create(ctx context.Context, in CreateProductInput) (model.Product, error) {
	if in.Name == "" || in.Description == "" || in.Image == "" || in.Category == "" || in.SubCategory == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}
	if in.Price <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Price must be greater than zero")
	}
	if len(in.Sizes) == 0 || !validSizes(in.Sizes) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Sizes must be a non-empty array")
	}

	now := time.Now()
	p := model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		Sizes:       datatypes.JSON(in.Sizes),
		Bestseller:  in.Bestseller,
		Date:        now.Unix(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := u.products.Create(ctx, p)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Error creating product")
	}
	return created, nil
}

func (u *AdminProductUsecase) Update(ctx context.Context, id int64, in UpdateProductInput) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "Name must not be empty")
		}
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "Price must be greater than zero")
		}
		fields["price"] = *in.Price
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.SubCategory != nil {
		fields["sub_category"] = *in.SubCategory
	}
	if len(in.Sizes) > 0 {
		if !validSizes(in.Sizes) {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "Sizes must be a non-empty array")
		}
		fields["sizes"] = datatypes.JSON(in.Sizes)
	}
	if in.Bestseller != nil {
		fields["bestseller"] = *in.Bestseller
	}

	if len(fields) > 0 {
		if err := u.products.Update(ctx, id, fields); err != nil {
			if err == repo.ErrNotFound {
				return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
			}
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Error updating product")
		}
	}

	p, err := u.products.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Error updating product")
	}
	return p, nil
}

func (u *AdminProductUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.products.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "Error deleting product")
	}
	return nil
}

// ListAll はエクスポート用に全件を返す。
func (u *AdminProductUsecase) ListAll(ctx context.Context) ([]model.Product, error) {
	products, err := u.products.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Error fetching products")
	}
	return products, nil
}
