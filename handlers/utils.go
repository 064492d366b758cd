package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/klofront/todo-api/store"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	S *store.Store
	L *logrus.Logger
}

func NewHandler(s *store.Store, l *logrus.Logger) *Handler {
	return &Handler{S: s, L: l}
}

func FiberJsonResponse(c *fiber.Ctx, httpStatus int, status, message string, data any) error {
	return c.Status(httpStatus).JSON(fiber.Map{"status": status, "message": message, "data": data})
}

// StoreErrorResponse maps the store's error taxonomy onto HTTP statuses:
// validation errors are the client's fault, missing ids are 404, anything
// else is a storage fault and logged.
func (h *Handler) StoreErrorResponse(c *fiber.Ctx, op string, err error) error {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		return FiberJsonResponse(c, fiber.StatusBadRequest, "error", ve.Error(), nil)
	}
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		return FiberJsonResponse(c, fiber.StatusNotFound, "error", nf.Error(), nil)
	}
	h.L.Errorf("[store] %s failed: %v", op, err)
	return FiberJsonResponse(c, fiber.StatusInternalServerError, "error", "storage failure", err.Error())
}

// todoID parses the :id path parameter. ok is false after a response has
// already been written for a malformed id.
func todoID(c *fiber.Ctx) (int, bool, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, false, FiberJsonResponse(c, fiber.StatusBadRequest, "error", "id must be a positive integer", nil)
	}
	return id, true, nil
}
