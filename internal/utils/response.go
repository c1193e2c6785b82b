package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every endpoint returns. Success is always
// present; the remaining fields are populated per response kind.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Total   *int64      `json:"total,omitempty"`
	Summary interface{} `json:"summary,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse sends a success envelope
func SuccessResponse(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SuccessListResponse sends a success envelope with a total row count
func SuccessListResponse(c *fiber.Ctx, data interface{}, total int64) error {
	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Data:    data,
		Total:   &total,
	})
}

// SuccessWithSummaryResponse sends a success envelope with a per-item summary
func SuccessWithSummaryResponse(c *fiber.Ctx, data interface{}, summary interface{}) error {
	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Data:    data,
		Summary: summary,
	})
}

// ErrorResponse sends an error envelope
func ErrorResponse(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// ErrorWithCodeResponse sends an error envelope with a machine-readable code
func ErrorWithCodeResponse(c *fiber.Ctx, status int, message, code string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

// ErrorWithDetailsResponse sends an error envelope with field-level details
func ErrorWithDetailsResponse(c *fiber.Ctx, status int, message, code string, details interface{}) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
		Code:    code,
		Details: details,
	})
}
