package tool

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Validator is implemented by request types that check their own fields.
type Validator interface {
	Validate() error
}

// Decode copies tool arguments into a typed request. Fields are matched by
// their json tag; numbers and strings are converted where unambiguous.
func Decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(args); err != nil {
		return &ArgumentError{Err: err}
	}
	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			return &ArgumentError{Err: err}
		}
	}
	return nil
}

// Typed adapts a function taking a typed request into a Func.
func Typed[Req any](fn func(ctx context.Context, req Req) (string, error)) Func {
	return func(ctx context.Context, args map[string]any) (string, error) {
		var req Req
		if err := Decode(args, &req); err != nil {
			return "", err
		}
		return fn(ctx, req)
	}
}
