package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"catalogapi/internal/service"
)

// createUserRequest is the body of POST /api/users.
type createUserRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	ProductIDs []int64 `json:"productsId"`
}

// ListUsers returns every user with its products.
//
// @Summary  List users
// @Tags     users
// @Produce  json
// @Success  200 {array}  view.UserView
// @Failure  500 {object} errorPayload
// @Router   /api/users [get]
func ListUsers(svc service.UserService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext())
		if err != nil {
			return writeOutcome(c, log, err)
		}
		return c.JSON(res)
	}
}

// GetUser returns one user with its products.
//
// @Summary  Get user
// @Tags     users
// @Produce  json
// @Param    id  path     int true "User ID"
// @Success  200 {object} view.UserView
// @Failure  404 {object} errorPayload
// @Router   /api/users/{id} [get]
func GetUser(svc service.UserService, log zerolog.Logger) fiber.Handler {
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

// CreateUser stores a user linked to the given products.
//
// @Summary  Create user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body body     createUserRequest true "User"
// @Success  201  {object} view.UserView
// @Failure  400  {object} errorPayload
// @Failure  409  {object} errorPayload
// @Router   /api/users [post]
func CreateUser(svc service.UserService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createUserRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		res, err := svc.Create(c.UserContext(), service.CreateUserInput{
			Name:       req.Name,
			Email:      req.Email,
			ProductIDs: req.ProductIDs,
		})
		if err != nil {
			return writeOutcome(c, log, err)
		}
		c.Location("/api/users/" + strconv.FormatInt(res.ID, 10))
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// LinkProduct adds a product to a user.
//
// @Summary  Link product to user
// @Tags     users
// @Produce  json
// @Param    id        path     int true "User ID"
// @Param    productId path     int true "Product ID"
// @Success  200       {object} view.UserView
// @Failure  404       {object} errorPayload
// @Failure  409       {object} errorPayload
// @Router   /api/users/{id}/products/{productId} [post]
func LinkProduct(svc service.UserService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := paramID(c, "id")
		if !ok {
			return invalidID(c)
		}
		productID, ok := paramID(c, "productId")
		if !ok {
			return invalidID(c)
		}
		res, err := svc.LinkProduct(c.UserContext(), userID, productID)
		if err != nil {
			return writeOutcome(c, log, err)
		}
		return c.JSON(res)
	}
}
