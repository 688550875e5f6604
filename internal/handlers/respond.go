package handlers

import (
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/maja/schedly-api/internal/authz"
)

// errorResponse is the uniform error envelope. The code string and its HTTP
// status come from the authz code table so clients can branch on either.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func denyJSON(c *drift.Context, code authz.Code, message string) {
	_ = c.JSON(code.HTTPStatus(), errorResponse{Error: string(code), Message: message})
}

// resultJSON renders a failed authz result. Internal details never reach the
// client; the resolvers already logged them.
func resultJSON(c *drift.Context, res authz.Result) {
	denyJSON(c, res.Code, "")
}
