package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/leave-api/pkg/errors"
)

// Envelope represents the common response contract. Every body carries Success.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
	Token   string      `json:"token,omitempty"`
	User    interface{} `json:"user,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// JSON sends a success envelope with the given payload and optional message.
func JSON(c *gin.Context, status int, data interface{}, message string) {
	noStore(c)
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}, message string) {
	JSON(c, http.StatusCreated, data, message)
}

// Message sends a success envelope without a data payload.
func Message(c *gin.Context, status int, message string) {
	noStore(c)
	c.JSON(status, Envelope{Success: true, Message: message})
}

// List sends a success envelope with a count next to the items.
func List(c *gin.Context, data interface{}, count int) {
	noStore(c)
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// Session sends a token together with the identity it was issued for.
func Session(c *gin.Context, status int, token string, user interface{}) {
	noStore(c)
	c.JSON(status, Envelope{Success: true, Token: token, User: user})
}

// Identity sends the authenticated user without a token.
func Identity(c *gin.Context, user interface{}) {
	noStore(c)
	c.JSON(http.StatusOK, Envelope{Success: true, User: user})
}

// Error sends an error response converting the error to the common structure.
// Internal failures also expose the underlying cause under "error".
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	envelope := Envelope{Success: false, Code: appErr.Code, Message: appErr.Message}
	if appErr.Status >= http.StatusInternalServerError && appErr.Err != nil {
		envelope.Error = appErr.Err.Error()
		_ = c.Error(appErr)
	}
	noStore(c)
	c.JSON(appErr.Status, envelope)
}

// Abort writes the error response and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
