package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"catalogapi/internal/service"
)

// productRequest is the body of create and update. Price accepts a JSON
// number or a numeric string.
type productRequest struct {
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

// ListProducts returns every product.
//
// @Summary  List products
// @Tags     products
// @Produce  json
// @Success  200 {array}  view.ProductView
// @Failure  500 {object} errorPayload
// @Router   /api/products [get]
func ListProducts(svc service.ProductService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext())
		if err != nil {
			return writeOutcome(c, log, err)
		}
		return c.JSON(res)
	}
}

// SearchProducts returns products whose name contains the name query.
//
// @Summary  Search products by name
// @Tags     products
// @Produce  json
// @Param    name query string true "Case-sensitive substring"
// @Success  200 {array}  view.ProductView
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/products/search [get]
func SearchProducts(svc service.ProductService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Search(c.UserContext(), c.Query("name"))
		if err != nil {
			return writeOutcome(c, log, err)
		}
		return c.JSON(res)
	}
}

// GetProduct returns one product.
//
// @Summary  Get product
// @Tags     products
// @Produce  json
// @Param    id  path     int true "Product ID"
// @Success  200 {object} view.ProductView
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/products/{id} [get]
func GetProduct(svc service.ProductService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		res, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeOutcome(c, log, err)
		}
		return c.JSON(res)
	}
}

// CreateProduct stores a new product.
//
// @Summary  Create product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    body body     productRequest true "Product"
// @Success  201  {object} view.ProductView
// @Failure  400  {object} errorPayload
// @Router   /api/products [post]
func CreateProduct(svc service.ProductService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req productRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		if req.Price == nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "Price is required")
		}
		res, err := svc.Create(c.UserContext(), req.Name, *req.Price)
		if err != nil {
			return writeOutcome(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// UpdateProduct overwrites name and price of a product.
//
// @Summary  Update product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    id   path     int            true "Product ID"
// @Param    body body     productRequest true "Product"
// @Success  200  {object} view.ProductView
// @Failure  400  {object} errorPayload
// @Failure  404  {object} errorPayload
// @Router   /api/products/{id} [put]
func UpdateProduct(svc service.ProductService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		var req productRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		if req.Price == nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "Price is required")
		}
		res, err := svc.Update(c.UserContext(), id, req.Name, *req.Price)
		if err != nil {
			return writeOutcome(c, log, err)
		}
		return c.JSON(res)
	}
}

// DeleteProduct removes a product no user holds.
//
// @Summary  Delete product
// @Tags     products
// @Produce  json
// @Param    id  path     int true "Product ID"
// @Success  200 {object} messagePayload
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /api/products/{id} [delete]
func DeleteProduct(svc service.ProductService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeOutcome(c, log, err)
		}
		return c.JSON(messagePayload{Message: "Product deleted successfully"})
	}
}
