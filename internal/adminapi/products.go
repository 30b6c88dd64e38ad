package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/tradecatalog/internal/service"
)

const healthMessage = "Trading System is running"

// ProductHandler serves the trading product endpoints
type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// RegisterProductRoutes registers the product CRUD endpoints on g.
// Static segments take precedence over /:id in echo's router.
func RegisterProductRoutes(g *echo.Group, h *ProductHandler) {
	g.GET("/products", h.listProducts)
	g.POST("/products", h.createProduct)
	g.GET("/products/health", h.health)
	g.GET("/products/summary", h.summary)
	g.GET("/products/export", h.exportProducts)
	g.GET("/products/search", h.searchProducts)
	g.GET("/products/symbol/:symbol", h.getProductBySymbol)
	g.GET("/products/category/:category", h.listProductsByCategory)
	g.GET("/products/status/:status", h.listProductsByStatus)
	g.GET("/products/:id", h.getProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)
}

func (h *ProductHandler) listProducts(c echo.Context) error {
	rows, err := h.svc.List(c.Request().Context())
	if err != nil {
		return failFromError(c, err, "query products")
	}
	return ok(c, rows)
}

func (h *ProductHandler) getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return failFromError(c, err, "query product")
	}
	return ok(c, p)
}

func (h *ProductHandler) getProductBySymbol(c echo.Context) error {
	p, err := h.svc.GetBySymbol(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return failFromError(c, err, "query product")
	}
	return ok(c, p)
}

func (h *ProductHandler) listProductsByCategory(c echo.Context) error {
	rows, err := h.svc.ListByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return failFromError(c, err, "query products")
	}
	return ok(c, rows)
}

func (h *ProductHandler) listProductsByStatus(c echo.Context) error {
	rows, err := h.svc.ListByStatus(c.Request().Context(), c.Param("status"))
	if err != nil {
		return failFromError(c, err, "query products")
	}
	return ok(c, rows)
}

func (h *ProductHandler) searchProducts(c echo.Context) error {
	if !c.QueryParams().Has("name") {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Query parameter 'name' is required", nil)
	}
	rows, err := h.svc.Search(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return failFromError(c, err, "search products")
	}
	return ok(c, rows)
}

func (h *ProductHandler) createProduct(c echo.Context) error {
	var payload service.ProductInput
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	p, err := h.svc.Create(c.Request().Context(), payload)
	if err != nil {
		return failFromError(c, err, "create product")
	}
	return created(c, p)
}

func (h *ProductHandler) updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload service.ProductInput
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	p, err := h.svc.Update(c.Request().Context(), id, payload)
	if err != nil {
		return failFromError(c, err, "update product")
	}
	return ok(c, p)
}

func (h *ProductHandler) deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return failFromError(c, err, "delete product")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) health(c echo.Context) error {
	return c.String(http.StatusOK, healthMessage)
}

func (h *ProductHandler) summary(c echo.Context) error {
	sum, err := h.svc.Summary(c.Request().Context())
	if err != nil {
		return failFromError(c, err, "query products summary")
	}
	return ok(c, sum)
}
