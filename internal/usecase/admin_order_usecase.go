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

// AdminOrderUsecase は /api/admin/orders の業務ロジックです。
type AdminOrderUsecase struct {
	tx    repo.TransactionManager
	users repo.UserRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, users repo.UserRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, users: users}
}

type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AdminOrderOutput struct {
	OrderOutput
	User UserSummary `json:"user"`
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	Search string
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

type AdminOrderListOutput struct {
	Orders     []AdminOrderOutput `json:"orders"`
	Pagination Pagination         `json:"pagination"`
}

type AdminOrderItemInput struct {
	ProductID int64   `json:"productId"`
	Size      string  `json:"size"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
}

type AdminCreateOrderInput struct {
	UserID        int64
	Items         []AdminOrderItemInput
	Amount        float64
	Address       json.RawMessage
	PaymentMethod string
}

type AdminUpdateOrderInput struct {
	Status        *string
	Payment       *bool
	Address       json.RawMessage
	PaymentMethod *string
}

func validOrderStatus(s string) bool {
	switch model.OrderStatus(s) {
	case model.OrderStatusPlaced, model.OrderStatusPacking, model.OrderStatusShipped,
		model.OrderStatusDelivery, model.OrderStatusDelivered:
		return true
	}
	return false
}

func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (AdminOrderListOutput, error) {
	if in.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Status != "" && !validOrderStatus(in.Status) {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out AdminOrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, repo.AdminOrderListFilter{
			Page:   in.Page,
			Limit:  in.Limit,
			Status: in.Status,
			Search: in.Search,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error fetching orders")
		}

		outs := make([]AdminOrderOutput, 0, len(orders))
		for _, o := range orders {
			ao, err := u.buildAdminOrder(ctx, r, o)
			if err != nil {
				return err
			}
			outs = append(outs, ao)
		}

		totalPages := total / int64(in.Limit)
		if total%int64(in.Limit) != 0 {
			totalPages++
		}

		out = AdminOrderListOutput{
			Orders: outs,
			Pagination: Pagination{
				Total:      total,
				Page:       in.Page,
				Limit:      in.Limit,
				TotalPages: totalPages,
			},
		}
		return nil
	})
	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (AdminOrderOutput, error) {
	if orderID <= 0 {
		return AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out AdminOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error fetching order")
		}

		out, err = u.buildAdminOrder(ctx, r, o)
		return err
	})
	if err != nil {
		return AdminOrderOutput{}, err
	}
	return out, nil
}

// Create は管理者が明細を指定して注文を作る（カートは介さない）。
func (u *AdminOrderUsecase) Create(ctx context.Context, in AdminCreateOrderInput) (AdminOrderOutput, error) {
	if in.UserID <= 0 || len(in.Items) == 0 || in.Amount <= 0 || len(in.Address) == 0 || in.PaymentMethod == "" {
		return AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity < 1 || it.Price < 0 {
			return AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
	}

	//対象ユーザーの存在確認
	if _, err := u.users.FindByID(ctx, in.UserID); err != nil {
		return AdminOrderOutput{}, NewHTTPError(http.StatusNotFound, "User not found")
	}

	var out AdminOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := time.Now()
		order := model.Order{
			UserID:        in.UserID,
			Amount:        in.Amount,
			Address:       datatypes.JSON(in.Address),
			PaymentMethod: in.PaymentMethod,
			Status:        model.OrderStatusPlaced,
			Payment:       false,
			Date:          now.Unix(),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error creating order")
		}

		items := make([]model.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			items = append(items, model.OrderItem{
				ProductID: it.ProductID,
				Size:      it.Size,
				Quantity:  it.Quantity,
				Price:     it.Price,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error creating order")
		}

		created, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error creating order")
		}

		out, err = u.buildAdminOrder(ctx, r, created)
		return err
	})
	if err != nil {
		return AdminOrderOutput{}, err
	}
	return out, nil
}

// Update はstatus/payment/address/paymentMethodだけを更新する。
func (u *AdminOrderUsecase) Update(ctx context.Context, orderID int64, in AdminUpdateOrderInput) (AdminOrderOutput, error) {
	if orderID <= 0 {
		return AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Status != nil && !validOrderStatus(*in.Status) {
		return AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	fields := map[string]interface{}{}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Payment != nil {
		fields["payment"] = *in.Payment
	}
	if len(in.Address) > 0 {
		fields["address"] = datatypes.JSON(in.Address)
	}
	if in.PaymentMethod != nil {
		fields["payment_method"] = *in.PaymentMethod
	}

	var out AdminOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Update(ctx, orderID, fields); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "Order not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "Error updating order")
		}

		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error updating order")
		}

		out, err = u.buildAdminOrder(ctx, r, o)
		return err
	})
	if err != nil {
		return AdminOrderOutput{}, err
	}
	return out, nil
}

// Delete は明細→注文の順に同一トランザクションで消す。
func (u *AdminOrderUsecase) Delete(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error deleting order")
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "Order not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "Error deleting order")
		}
		return nil
	})
}

func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, orderID int64, status string) (AdminOrderOutput, error) {
	if orderID <= 0 {
		return AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if status == "" {
		return AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "Status is required")
	}
	if !validOrderStatus(status) {
		return AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.Update(ctx, orderID, AdminUpdateOrderInput{Status: &status})
}

// 注文にユーザーサマリと明細を添える
func (u *AdminOrderUsecase) buildAdminOrder(ctx context.Context, r repo.TxRepos, o model.Order) (AdminOrderOutput, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return AdminOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "Error fetching order")
	}

	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		name := ""
		image := ""
		if p, err := r.Products().FindByID(ctx, it.ProductID); err == nil {
			name = p.Name
			image = p.Image
		}
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      name,
			Image:     image,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	user := UserSummary{ID: o.UserID}
	if usr, err := u.users.FindByID(ctx, o.UserID); err == nil {
		user.Name = usr.Name
		user.Email = usr.Email
	}

	return AdminOrderOutput{
		OrderOutput: toOrderOutput(o, outItems),
		User:        user,
	}, nil
}
