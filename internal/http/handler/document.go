package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docms/internal/service"
)

// createDocumentRequest is the POST body. Title is required; the rest are
// optional and preserved as given (tag order included).
type createDocumentRequest struct {
	Title    string   `json:"title"`
	Location *string  `json:"location"`
	Author   *string  `json:"author"`
	Tags     []string `json:"tags"`
}

// updateDocumentRequest is the PUT body: a full field replacement.
type updateDocumentRequest struct {
	Title    string   `json:"title"`
	Location *string  `json:"location"`
	Author   *string  `json:"author"`
	Tags     []string `json:"tags"`
}

// GetDocument returns a single document by id.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(doc)
	}
}

// SearchDocuments returns documents whose title contains the q parameter.
// A missing or blank q returns every document.
func SearchDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.Search(c.UserContext(), c.Query("q"))
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(docs)
	}
}

// CreateDocument ingests a new document and answers 201 with a Location
// header pointing at the created record.
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		doc, err := svc.Create(c.UserContext(), service.CreateDocumentInput{
			Title:    req.Title,
			Location: req.Location,
			Author:   req.Author,
			Tags:     req.Tags,
		})
		if err != nil {
			if code, msg, ok := validationError(err); ok {
				return writeError(c, fiber.StatusBadRequest, code, msg)
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Set(fiber.HeaderLocation, fmt.Sprintf("/api/documents/%d", doc.ID))
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// UpdateDocument performs a full replacement of an existing document.
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		err = svc.Update(c.UserContext(), id, service.UpdateDocumentInput{
			Title:    req.Title,
			Location: req.Location,
			Author:   req.Author,
			Tags:     req.Tags,
		})
		if err != nil {
			if code, msg, ok := validationError(err); ok {
				return writeError(c, fiber.StatusBadRequest, code, msg)
			}
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeleteDocument removes a document by id.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// validationError maps service validation sentinels to client error codes.
func validationError(err error) (code, message string, ok bool) {
	switch {
	case errors.Is(err, service.ErrTitleRequired):
		return "TITLE_REQUIRED", "title is required", true
	case errors.Is(err, service.ErrTitleTooLong):
		return "TITLE_TOO_LONG", "title exceeds 256 characters", true
	case errors.Is(err, service.ErrLocationTooLong):
		return "LOCATION_TOO_LONG", "location exceeds 2048 characters", true
	case errors.Is(err, service.ErrAuthorTooLong):
		return "AUTHOR_TOO_LONG", "author exceeds 256 characters", true
	}
	return "", "", false
}
