package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"catalogapi/internal/model"
	"catalogapi/internal/service"
)

// validate is shared across handlers; field names in messages come from
// the json tags so clients see the names they sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage flattens validator errors into a single safe string.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request payload"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+" failed validation on '"+fe.Tag()+"'")
	}
	return strings.Join(parts, "; ")
}

type createItemRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"required,min=10,max=2000"`
	Category    string   `json:"category" validate:"required,min=2,max=50"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required"`
}

// updateItemRequest uses pointers so absent fields can fall back to the
// item's current values.
type updateItemRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string  `json:"description" validate:"omitempty,min=10,max=2000"`
	Category    *string  `json:"category" validate:"omitempty,min=2,max=50"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required"`
}

// itemID validates the :id path parameter as a UUID.
func itemID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// CreateItem handles POST /catalog. The new item is scored on creation
// and may come back already in PENDING_APPROVAL.
func CreateItem(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createItemRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		}

		item, err := svc.Create(c.UserContext(), service.ItemInput{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Tags:        req.Tags,
		})
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// ListItems handles GET /catalog, optionally filtered with ?status=.
func ListItems(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			items []model.CatalogItem
			err   error
		)

		if raw := c.Query("status"); raw != "" {
			status, perr := model.ParseStatus(raw)
			if perr != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "unknown status value")
			}
			items, err = svc.ListByStatus(c.UserContext(), status)
		} else {
			items, err = svc.List(c.UserContext())
		}

		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if items == nil {
			items = []model.CatalogItem{}
		}
		return c.JSON(items)
	}
}

// GetItem handles GET /catalog/:id.
func GetItem(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := itemID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		item, err := svc.GetByID(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "catalog item not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(item)
	}
}

// UpdateItem handles PUT /catalog/:id. Fields absent from the body keep
// their current values; the item is rescored either way.
func UpdateItem(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := itemID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateItemRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		}

		current, err := svc.GetByID(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "catalog item not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		in := service.ItemInput{
			Title:       current.Title,
			Description: current.Description,
			Category:    current.Category,
			Tags:        current.Tags,
		}
		if req.Title != nil {
			in.Title = *req.Title
		}
		if req.Description != nil {
			in.Description = *req.Description
		}
		if req.Category != nil {
			in.Category = *req.Category
		}
		if req.Tags != nil {
			in.Tags = req.Tags
		}

		item, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "catalog item not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(item)
	}
}

// DeleteItem handles DELETE /catalog/:id.
func DeleteItem(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := itemID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "catalog item not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ApproveItem handles POST /catalog/:id/approve. The service hands an
// ineligible item back unchanged, which surfaces here as a 400.
func ApproveItem(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := itemID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		item, err := svc.Approve(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "catalog item not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		if item.Status != model.StatusApproved {
			return writeError(c, fiber.StatusBadRequest, "CANNOT_APPROVE", "item does not meet the approval criteria")
		}
		return c.JSON(item)
	}
}

// RejectItem handles POST /catalog/:id/reject.
func RejectItem(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := itemID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		item, err := svc.Reject(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "catalog item not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(item)
	}
}

// AttachItemImage handles POST /catalog/:id/image (multipart, field
// name: image).
func AttachItemImage(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := itemID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		fh, err := c.FormFile("image")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "IMAGE_REQUIRED", "image file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		item, err := svc.AttachImage(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "catalog item not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(item)
	}
}

// GetItemImage handles GET /catalog/:id/image and answers with a
// short-lived presigned download URL.
func GetItemImage(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := itemID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		url, err := svc.ImageURL(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "catalog item not found")
			case errors.Is(err, service.ErrNoImage):
				return writeError(c, fiber.StatusNotFound, "NO_IMAGE", "catalog item has no image")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(fiber.Map{"url": url})
	}
}
