package edit

import (
	"context"
	"log/slog"
)

// Operation names accepted by the protocol.
const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpGet    = "get"
)

// Request is one operation received over the protocol stream. DepType is
// nil when the request omits it, so callers can substitute their own
// default category.
type Request struct {
	Op      string    `json:"op"`
	DepType *Category `json:"dep_type,omitempty"`
	Dep     string    `json:"dep,omitempty"`
}

// Category resolves the request's target category, substituting fallback
// when the request did not name one.
func (r Request) Category(fallback Category) Category {
	if r.DepType == nil {
		return fallback
	}

	return *r.DepType
}

// Status classifies a Response.
type Status string

// Response statuses.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Response is the result of one operation. Data carries the get result,
// the new document text in return-only mode, or a human-readable message
// on error; it is omitted otherwise.
type Response struct {
	Status Status  `json:"status"`
	Data   *string `json:"data,omitempty"`
}

// Succeed builds a success response without data.
func Succeed() Response {
	return Response{Status: StatusSuccess}
}

// SucceedData builds a success response carrying data.
func SucceedData(data string) Response {
	return Response{Status: StatusSuccess, Data: &data}
}

// Fail builds an error response carrying the error's message.
func Fail(err error) Response {
	msg := err.Error()

	return Response{Status: StatusError, Data: &msg}
}

// Apply runs one protocol request against the editor and reports the
// outcome as a Response. Failures are always absorbed into the response:
// one failed operation never terminates a request stream.
func Apply(ctx context.Context, e Editor, req Request) Response {
	category := req.Category(CategoryRegular)

	switch req.Op {
	case OpAdd:
		data, err := e.Add(ctx, category, req.Dep)
		if err != nil {
			return Fail(err)
		}

		if data != "" {
			return SucceedData(data)
		}

		return Succeed()

	case OpRemove:
		data, err := e.Remove(ctx, category, req.Dep)
		if err != nil {
			return Fail(err)
		}

		if data != "" {
			return SucceedData(data)
		}

		return Succeed()

	case OpGet:
		data, err := e.Get(ctx, category)
		if err != nil {
			return Fail(err)
		}

		return SucceedData(data)

	default:
		return Fail(ErrUnknownOp.With(slog.String("op", req.Op)))
	}
}
