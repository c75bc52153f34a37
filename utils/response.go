package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response body. Failures carry a message and an
// optional machine-readable code; successes inline their payload.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Error codes shared across handlers and middleware.
const (
	CodeAuthFailed       = "AUTH_FAILED"
	CodeTokenExpired     = "TOKEN_EXPIRED"
	CodeInvalidToken     = "INVALID_TOKEN"
	CodeAccountInactive  = "ACCOUNT_INACTIVE"
	CodeEmailNotVerified = "EMAIL_NOT_VERIFIED"
	CodeAccessDenied     = "ACCESS_DENIED"
	CodeInsufficientRole = "INSUFFICIENT_ROLE"
	CodeNotFound         = "NOT_FOUND"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInvalidFileType  = "INVALID_FILE_TYPE"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeTooManyFiles     = "TOO_MANY_FILES"
	CodeUnexpectedFile   = "UNEXPECTED_FILE"
	CodeNoFile           = "NO_FILE"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Envelope{Success: true, Data: data})
}

func SuccessMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, &Envelope{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, &Envelope{Success: true, Message: "Resource created successfully", Data: data})
}

// Fail writes the standard failure envelope and stops further handlers.
func Fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, &Envelope{Success: false, Message: message, Code: code})
}

// FailWith is Fail with extra top-level fields merged into the body,
// e.g. retryAfter on 429 or required/current on role rejections.
func FailWith(c *gin.Context, status int, code, message string, extra gin.H) {
	body := gin.H{"success": false, "message": message}
	if code != "" {
		body["code"] = code
	}
	for k, v := range extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(status, body)
}

func BadRequest(c *gin.Context, code, message string) {
	Fail(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Fail(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Fail(c, http.StatusForbidden, code, message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, CodeNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, "", message)
}
