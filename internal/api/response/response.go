// Package response renders the JSON envelope every endpoint answers with.
package response

import (
	"github.com/labstack/echo/v4"
)

// Envelope is the body of every API response.
type Envelope struct {
	Result  any    `json:"result"`
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Info    string `json:"info,omitempty"`
}

// InfoEmailNotSent annotates a successful response whose mail side effect failed.
const InfoEmailNotSent = "email not sent"

// OK writes a successful envelope.
func OK(c echo.Context, code int, result any, msg string) error {
	return c.JSON(code, Envelope{Result: result, Success: true, Msg: msg})
}

// OKWithNotice writes a successful envelope, adding InfoEmailNotSent when
// notifyErr is non-nil.
func OKWithNotice(c echo.Context, code int, result any, msg string, notifyErr error) error {
	env := Envelope{Result: result, Success: true, Msg: msg}
	if notifyErr != nil {
		env.Info = InfoEmailNotSent
	}
	return c.JSON(code, env)
}

// Fail writes an unsuccessful envelope.
func Fail(c echo.Context, code int, result any, msg string) error {
	return c.JSON(code, Envelope{Result: result, Success: false, Msg: msg})
}
