package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the fixed wire shape for non-entity replies: errors carry an
// "error" field, confirmations a "message" field.
type Response struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func Error(msg string) Response {
	return Response{Error: msg}
}

func Message(msg string) Response {
	return Response{Message: msg}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}

	return Error(strings.Join(errMsgs, ", "))
}
