package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/payment"
	repo "app/internal/repository"

	"gorm.io/datatypes"
)

type OrderUsecase struct {
	tx       repo.TransactionManager
	provider payment.Provider
}

func NewOrderUsecase(tx repo.TransactionManager, provider payment.Provider) *OrderUsecase {
	return &OrderUsecase{tx: tx, provider: provider}
}

type PlaceOrderInput struct {
	Address       json.RawMessage
	PaymentMethod string
}

type OrderItemOutput struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Size      string  `json:"size"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"userId"`
	Amount        float64           `json:"amount"`
	Address       datatypes.JSON    `json:"address"`
	PaymentMethod string            `json:"paymentMethod"`
	Status        string            `json:"status"`
	Payment       bool              `json:"payment"`
	Date          int64             `json:"date"`
	Items         []OrderItemOutput `json:"items"`

	//STRIPEのとき、フロントが決済を完了するためのシークレット
	ClientSecret string `json:"clientSecret,omitempty"`

	//注文確定後に決済の開始だけ失敗したとき、その旨をフロントに伝える
	PaymentError string `json:"paymentError,omitempty"`
}

type OrderListOutput struct {
	Orders     []OrderOutput `json:"orders"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int64         `json:"totalPages"`
}

// PlaceOrder はカートから注文を作る。
// 注文作成とカートのクリアは同一トランザクションで行う。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Address) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "Shipping address is required")
	}

	method := in.PaymentMethod
	if method == "" {
		method = model.PaymentMethodCOD
	}
	if method != model.PaymentMethodCOD && method != model.PaymentMethodStripe {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment method")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート取得。無ければ空扱い
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "Cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error creating order")
		}

		//カート明細取得
		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error creating order")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "Cart is empty")
		}

		//金額は注文時点の商品価格で計算する
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		outItems := make([]OrderItemOutput, 0, len(cartItems))
		var amount float64 = 0

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "Product not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "Error creating order")
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID: ci.ProductID,
				Size:      ci.Size,
				Quantity:  ci.Quantity,
				Price:     p.Price,
			})
			outItems = append(outItems, OrderItemOutput{
				ProductID: ci.ProductID,
				Name:      p.Name,
				Image:     p.Image,
				Size:      ci.Size,
				Quantity:  ci.Quantity,
				Price:     p.Price,
			})

			amount += p.Price * float64(ci.Quantity)
		}

		// 注文作成（dateはunix秒で統一）
		now := time.Now()
		order := model.Order{
			UserID:        userID,
			Amount:        amount,
			Address:       datatypes.JSON(in.Address),
			PaymentMethod: method,
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

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error creating order")
		}

		//同一トランザクションでカートを空にする
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error creating order")
		}

		out = OrderOutput{
			ID:            orderID,
			UserID:        userID,
			Amount:        amount,
			Address:       order.Address,
			PaymentMethod: method,
			Status:        string(model.OrderStatusPlaced),
			Payment:       false,
			Date:          order.Date,
			Items:         outItems,
		}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	//STRIPEのときだけ決済を開始する（コミット後）
	if method == model.PaymentMethodStripe {
		secret, err := u.provider.CreatePaymentIntent(ctx, out.ID, out.Amount, "usd")
		if err != nil {
			//注文は確定済みなので捨てない。決済の再開に必要な注文IDを返す
			out.PaymentError = "Failed to initialize payment"
			return out, nil
		}
		out.ClientSecret = secret
	}

	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error fetching orders")
		}

		outs := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := u.loadItems(ctx, r, o.ID)
			if err != nil {
				return err
			}
			outs = append(outs, toOrderOutput(o, items))
		}

		totalPages := total / int64(limit)
		if total%int64(limit) != 0 {
			totalPages++
		}

		out = OrderListOutput{
			Orders:     outs,
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		}
		return nil
	})
	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Error fetching order")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}

		items, err := u.loadItems(ctx, r, orderID)
		if err != nil {
			return err
		}

		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 明細に商品サマリを添えて返す
func (u *OrderUsecase) loadItems(ctx context.Context, r repo.TxRepos, orderID int64) ([]OrderItemOutput, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Error fetching order")
	}

	outs := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		name := ""
		image := ""
		if p, err := r.Products().FindByID(ctx, it.ProductID); err == nil {
			name = p.Name
			image = p.Image
		}
		outs = append(outs, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      name,
			Image:     image,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return outs, nil
}

func toOrderOutput(o model.Order, items []OrderItemOutput) OrderOutput {
	return OrderOutput{
		ID:            o.ID,
		UserID:        o.UserID,
		Amount:        o.Amount,
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod,
		Status:        string(o.Status),
		Payment:       o.Payment,
		Date:          o.Date,
		Items:         items,
	}
}
