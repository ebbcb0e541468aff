package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode pairs an application error code with its HTTP status and
// default message.
type ErrorCode struct {
	Code    string
	Message string
	Status  int
}

var (
	CodeInternal        = ErrorCode{Code: "GEN-001", Message: "Internal server error", Status: http.StatusInternalServerError}
	CodeValidation      = ErrorCode{Code: "GEN-002", Message: "Validation failed", Status: http.StatusBadRequest}
	CodeRouteNotFound   = ErrorCode{Code: "GEN-003", Message: "Resource not found", Status: http.StatusNotFound}
	CodeAssetNotFound   = ErrorCode{Code: "AST-001", Message: "Asset not found", Status: http.StatusNotFound}
	CodeSerialDuplicate = ErrorCode{Code: "AST-002", Message: "Serial number already exists", Status: http.StatusConflict}
	CodeDeleteNotFound  = ErrorCode{Code: "DEL-001", Message: "Asset not found for deletion", Status: http.StatusNotFound}
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the body of every non-2xx response.
type APIError struct {
	Status    int          `json:"status"`
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Details   []FieldError `json:"details"`
}

func NewAPIError(code ErrorCode, message string, details []FieldError) APIError {
	if message == "" {
		message = code.Message
	}
	if details == nil {
		details = []FieldError{}
	}
	return APIError{
		Status:    code.Status,
		Code:      code.Code,
		Message:   message,
		Timestamp: time.Now(),
		Details:   details,
	}
}

// SendError writes an APIError and aborts the handler chain. An empty
// message falls back to the code's default.
func SendError(c *gin.Context, code ErrorCode, message string, details []FieldError) {
	c.AbortWithStatusJSON(code.Status, NewAPIError(code, message, details))
}
