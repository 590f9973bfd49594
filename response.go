package fnware

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a structured result a handler or a short-circuiting middleware
// can return. The core imposes no shape on results; hosts know how to write
// a *Response back to their transport, and treat any other value as a 200
// with a JSON body.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       any
}

// JSON builds a response with the given status code and body.
func JSON(statusCode int, body any) *Response {
	return &Response{StatusCode: statusCode, Body: body}
}

// OK builds a 200 response.
func OK(body any) *Response {
	return JSON(http.StatusOK, body)
}

// BadRequest builds a 400 response. details typically carries per-field
// validation messages.
func BadRequest(details any) *Response {
	return JSON(http.StatusBadRequest, map[string]any{
		"error":   "bad request",
		"details": details,
	})
}

// Unauthorized builds a 401 response.
func Unauthorized(message string) *Response {
	return JSON(http.StatusUnauthorized, map[string]string{
		"error": message,
	})
}

// InternalError builds a 500 response.
func InternalError(message string) *Response {
	return JSON(http.StatusInternalServerError, map[string]string{
		"error": message,
	})
}

// DecodeBody unmarshals the event body into v. String and []byte bodies are
// treated as raw JSON. A body that was already parsed into a map or struct
// is round-tripped through encoding/json so v gets its own copy.
func DecodeBody(e *Event, v any) error {
	switch body := e.Body.(type) {
	case nil:
		return fmt.Errorf("fnware: event has no body")
	case []byte:
		return json.Unmarshal(body, v)
	case string:
		return json.Unmarshal([]byte(body), v)
	case json.RawMessage:
		return json.Unmarshal(body, v)
	default:
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, v)
	}
}
