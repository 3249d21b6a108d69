package usecase

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"net/http"

	"gorm.io/datatypes"
)

// CartUsecase は /api/cart の業務ロジックです。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// 明細に添える商品サマリ
type CartProductSummary struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Price       float64        `json:"price"`
	Image       string         `json:"image"`
	Category    string         `json:"category"`
	SubCategory string         `json:"subCategory"`
	Sizes       datatypes.JSON `json:"sizes"`
}

type CartItemResponse struct {
	ID        int64              `json:"id"`
	ProductID int64              `json:"productId"`
	Size      string             `json:"size"`
	Quantity  int64              `json:"quantity"`
	Product   CartProductSummary `json:"product"`
}

type CartResponse struct {
	ID     int64              `json:"id"`
	UserID int64              `json:"userId"`
	Items  []CartItemResponse `json:"items"`
}

type AddCartInput struct {
	ProductID int64
	Size      string
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity *int64
	Size     *string
}

// GetCart はカート取得（無ければ作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "Failed to fetch cart")
	}

	return u.buildCartResponse(ctx, cart.ID, userID)
}

// AddToCart はカートに追加（同一の商品・サイズは数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartItemResponse, error) {
	if userID <= 0 {
		return CartItemResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 || in.Size == "" {
		return CartItemResponse{}, NewHTTPError(http.StatusBadRequest, "Product ID and size are required")
	}
	if in.Quantity == 0 {
		//未指定は1個
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return CartItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// 商品チェック
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartItemResponse{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return CartItemResponse{}, NewHTTPError(http.StatusInternalServerError, "Failed to add item to cart")
	}

	// カート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartItemResponse{}, NewHTTPError(http.StatusInternalServerError, "Failed to add item to cart")
	}

	// Upsert（同一の商品・サイズは加算）
	item, err := u.cartItemRepo.UpsertByCartProductSize(ctx, cart.ID, in.ProductID, in.Size, in.Quantity)
	if err != nil {
		return CartItemResponse{}, NewHTTPError(http.StatusInternalServerError, "Failed to add item to cart")
	}

	return CartItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Size:      item.Size,
		Quantity:  item.Quantity,
		Product:   toCartProductSummary(p),
	}, nil
}

// 数量・サイズ変更（所有チェック付き）。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartItemResponse, error) {
	if userID <= 0 {
		return CartItemResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return CartItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	if in.Size != nil && *in.Size == "" {
		return CartItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid size")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return CartItemResponse{}, NewHTTPError(http.StatusInternalServerError, "Failed to update cart item")
	}
	if !owned {
		//他人の明細は「存在しない扱い」にする
		return CartItemResponse{}, NewHTTPError(http.StatusNotFound, "Cart item not found")
	}

	item, err := u.cartItemRepo.UpdateByID(ctx, cartItemID, in.Quantity, in.Size)
	if err == repo.ErrNotFound {
		return CartItemResponse{}, NewHTTPError(http.StatusNotFound, "Cart item not found")
	}
	if err == repo.ErrConflict {
		//変更先のサイズが既にカートにある
		return CartItemResponse{}, NewHTTPError(http.StatusConflict, "An item with this size is already in the cart")
	}
	if err != nil {
		return CartItemResponse{}, NewHTTPError(http.StatusInternalServerError, "Failed to update cart item")
	}

	p, err := u.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return CartItemResponse{}, NewHTTPError(http.StatusInternalServerError, "Failed to update cart item")
	}

	return CartItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Size:      item.Size,
		Quantity:  item.Quantity,
		Product:   toCartProductSummary(p),
	}, nil
}

// 明細削除
func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, cartItemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Failed to remove item from cart")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "Cart item not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "Cart item not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "Failed to remove item from cart")
	}

	return nil
}

// カートを空にする（カートが無ければ何もしない）
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Failed to clear cart")
	}

	if err := u.cartRepo.Clear(ctx, cart.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Failed to clear cart")
	}
	return nil
}

// cartIDの明細をまとめてCartResponseを作る。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64, userID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "Failed to fetch cart")
	}

	respItems := make([]CartItemResponse, 0, len(items))

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			//商品が消えた明細は表示しない
			continue
		}

		respItems = append(respItems, CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Product:   toCartProductSummary(p),
		})
	}

	return CartResponse{ID: cartID, UserID: userID, Items: respItems}, nil
}

func toCartProductSummary(p model.Product) CartProductSummary {
	return CartProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		Sizes:       p.Sizes,
	}
}
