package fnware

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// Use a singleton validator instance to avoid recreating it
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New()

		// report field names from json tags, matching the payloads clients send
		validatorInstance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})

	return validatorInstance
}

// Validation returns middleware that decodes the raw event body into the
// struct produced by newPayload, validates it against its `validate` tags,
// and replaces event.Body with the parsed struct before delegating inward.
// Inner middleware and the handler then see structured data instead of a
// raw body string.
//
// A body that fails to decode or validate short-circuits the chain with a
// BadRequest response; next is never called.
//
// Usage:
//
//	type CreateUser struct {
//	    Name  string `json:"name" validate:"required"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//
//	trg := fnware.New(handler).Use(fnware.Validation(func() any {
//	    return &CreateUser{}
//	}))
func Validation(newPayload func() any) Middleware {
	if newPayload == nil {
		panic("fnware: Validation requires a payload factory")
	}

	return func(ctx context.Context, event *Event, next Next) (any, error) {
		payload := newPayload()

		if err := DecodeBody(event, payload); err != nil {
			return BadRequest(map[string]string{"body": "invalid request body"}), nil
		}

		if err := getValidator().Struct(payload); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				// invalid payload type or similar misuse, not a client error
				return nil, err
			}

			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fmt.Sprintf("failed on the %q rule", fe.Tag())
			}
			return BadRequest(fields), nil
		}

		event.Body = payload
		return next()
	}
}
