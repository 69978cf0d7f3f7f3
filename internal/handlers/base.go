package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/backoffice/pkg/repositories"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ParseID parses a positive integer id from a path parameter
func ParseID(c echo.Context, param string) (int64, error) {
	raw := c.Param(param)
	if raw == "" {
		return 0, BadRequest("missing " + param)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, BadRequest("invalid " + param + ": must be a positive integer")
	}
	return id, nil
}

// ParseListParams reads search, active, page, page_size, sort and order from the query string
func ParseListParams(c echo.Context) (repositories.ListParams, error) {
	params := repositories.ListParams{
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
		Order:  c.QueryParam("order"),
	}

	var err error
	if raw := c.QueryParam("page"); raw != "" {
		if params.Page, err = strconv.Atoi(raw); err != nil {
			return params, BadRequest("invalid page")
		}
	}
	if raw := c.QueryParam("page_size"); raw != "" {
		if params.PageSize, err = strconv.Atoi(raw); err != nil {
			return params, BadRequest("invalid page_size")
		}
	}
	if raw := c.QueryParam("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return params, BadRequest("invalid active: must be true or false")
		}
		params.Active = &active
	}
	return params, nil
}

// ReadJSON decodes the request body into each target in turn.
func ReadJSON(c echo.Context, targets ...any) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return BadRequest("invalid request body")
	}
	for _, target := range targets {
		if err := json.Unmarshal(body, target); err != nil {
			return BadRequest("invalid request body")
		}
	}
	return nil
}

// Validate runs the struct validation tags on v
func Validate(v any) error {
	return validate.Struct(v)
}

// SuccessResponse returns a 200 OK with data
func SuccessResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

// CreatedResponse returns a 201 Created with data
func CreatedResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, data)
}

// NoContentResponse returns a 204 No Content
func NoContentResponse(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// BadRequest returns a 400 Bad Request error
func BadRequest(message string) error {
	return httperror.NewHTTPError(http.StatusBadRequest, message)
}
