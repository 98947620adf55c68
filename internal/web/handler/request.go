package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/benevole/benevole/internal/db/controller"
)

var validate = validator.New() //nolint:gochecknoglobals

// Validate checks the validate tags of data.
// Failures are returned as *ValidationError with one "field : rule" detail per field.
func Validate(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err //nolint:wrapcheck
	}

	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}

		details = append(details, fmt.Sprintf("%s : %s", lowerFirst(fe.Field()), rule))
	}

	return &ValidationError{Details: details}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	return strings.ToLower(s[:1]) + s[1:]
}

// ParseBody decodes the JSON body into out and validates it.
func ParseBody(c *fiber.Ctx, out any) error {
	if err := json.Unmarshal(c.Body(), out); err != nil {
		return &ValidationError{Details: []string{MsgMalformedRequest + ": " + err.Error()}}
	}

	return Validate(out)
}

// ParseIDs decodes a JSON array of ids from the body.
func ParseIDs(c *fiber.Ctx) ([]uint, error) {
	var ids []uint
	if err := json.Unmarshal(c.Body(), &ids); err != nil {
		return nil, &ValidationError{Details: []string{"body : expected a list of ids"}}
	}

	return ids, nil
}

// UintParam returns the path parameter name as id.
func UintParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Details: []string{name + " : must be a positive number"}}
	}

	return uint(id), nil
}

// UUIDParam returns the path parameter name as uuid.
func UUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, &ValidationError{Details: []string{name + " : must be a uuid"}}
	}

	return id, nil
}

// PageQuery reads the page and size query parameters.
func PageQuery(c *fiber.Ctx) controller.Page {
	return controller.Page{
		Number: c.QueryInt("page", 0),
		Size:   c.QueryInt("size", controller.DefaultPageSize),
	}
}
