package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/tealeg/xlsx"
)

// /api/admin/productsのHTTP
type AdminProductHandler struct {
	uc      *usecase.AdminProductUsecase
	catalog *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.AdminProductUsecase, catalog *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc, catalog: catalog}
}

// /api/admin/products配下を登録。JWT+管理者のみ。
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/admin/products")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminGuard())

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/export", h.exportExcel)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// 管理画面の商品一覧。検索・絞り込みは公開APIと同じ条件を受ける。
func (h *AdminProductHandler) list(c echo.Context) error {
	out, err := h.catalog.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Page:        parseQueryInt(c, "page", 1),
		Limit:       parseQueryInt(c, "limit", 10),
		Search:      c.QueryParam("search"),
		Category:    c.QueryParam("category"),
		SubCategory: c.QueryParam("subCategory"),
		Bestseller:  c.QueryParam("bestseller") == "true",
		Sort:        c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, http.StatusOK, out)
}

func (h *AdminProductHandler) get(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.catalog.GetProductDetail(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, http.StatusOK, out)
}

func (h *AdminProductHandler) create(c echo.Context) error {
	var req usecase.CreateProductInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, http.StatusCreated, out)
}

func (h *AdminProductHandler) update(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	var req usecase.UpdateProductInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.Update(c.Request().Context(), productID, req)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, http.StatusOK, out)
}

func (h *AdminProductHandler) delete(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.Delete(c.Request().Context(), productID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, Response{Success: true, Message: "Product deleted"})
}

// 全商品をxlsxで返す
func (h *AdminProductHandler) exportExcel(c echo.Context) error {
	products, err := h.uc.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to create Excel sheet")
	}

	headers := []string{
		"ID", "Name", "Description", "Price", "Image",
		"Category", "SubCategory", "Sizes", "Bestseller", "Date",
	}
	headerRow := sheet.AddRow()
	for _, head := range headers {
		headerRow.AddCell().SetValue(head)
	}

	for _, p := range products {
		row := sheet.AddRow()

		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.SubCategory)
		row.AddCell().SetValue(string(p.Sizes))
		row.AddCell().SetValue(p.Bestseller)
		row.AddCell().SetValue(time.Unix(p.Date, 0).UTC().Format("2006-01-02 15:04:05"))
	}

	//ダウンロード用ヘッダ
	c.Response().Header().Set("Content-Disposition", "attachment; filename=products.xlsx")
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Response().Writer); err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to write Excel file")
	}
	return nil
}

//middleware.AuthJWT が c.Set("user_id", int64) した値を取り出す

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	if v == nil {
		return 0, false
	}

	id, found := v.(int64)
	if !found {
		return 0, false
	}

	return id, true
}
