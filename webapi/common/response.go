// Package common holds the response envelope, problem details and request
// binding shared by the HTTP handlers.
package common

import (
	"github.com/gofiber/fiber/v2"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Code     string `json:"code,omitempty"`     // Stable machine-readable error code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

// SuccessResponseJSON writes a Response envelope with the given status.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON returns a response following RFC 9457 Problem Details.
// A string detail fills Detail, anything else goes to Errors.
func ErrorResponseJSON(
	c *fiber.Ctx,
	status int,
	title string,
	detail any,
) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	return writeProblem(c, pd)
}

// ProblemDetailsJSON writes err as a problem response.
//
// The status and code come from ErrorToStatusCode and ErrorCode. Optional
// arguments override them: a string replaces the detail and an int the status.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, overrides ...any) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: ErrorToStatusCode(err),
		Code:   ErrorCode(err),
	}
	if err != nil {
		pd.Detail = err.Error()
	}
	for _, o := range overrides {
		switch v := o.(type) {
		case string:
			pd.Detail = v
		case int:
			pd.Status = v
		}
	}
	return writeProblem(c, pd)
}

func writeProblem(c *fiber.Ctx, pd ProblemDetails) error {
	pd.Instance = c.OriginalURL()
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(pd.Status).JSON(pd, "application/problem+json")
}
