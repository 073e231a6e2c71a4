package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

type response struct {
	Code    int64             `json:"code"`
	Error   string            `json:"error,omitempty"`
	Data    any               `json:"data,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// RawResponse is written as is instead of the JSON envelope.
type RawResponse struct {
	ContentType string
	FileName    string
	Body        []byte
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) (int, response) {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return httpStatus(errx.Code), response{
			Code:    int64(errx.Code),
			Error:   errx.Message,
			Details: errx.Details,
		}
	}

	return http.StatusInternalServerError, response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func httpStatus(code errorx.Code) int {
	switch code {
	case errorx.BadRequest:
		return http.StatusBadRequest
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.AlreadyExists, errorx.AlreadyPlaying, errorx.InvalidState, errorx.NothingToClaim:
		return http.StatusConflict
	case errorx.Unavailable:
		return http.StatusServiceUnavailable
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	case errorx.NotImplemented:
		return http.StatusNotImplemented
	}

	return http.StatusInternalServerError
}

func handleResponse() CloserFunc {
	return func(ctx context.Context) {
		w := xcontext.HTTPWriter(ctx)
		err := func() error {
			if err := xcontext.Error(ctx); err != nil {
				return err
			}

			resp := xcontext.Response(ctx)
			if raw, ok := resp.(*RawResponse); ok {
				writeRaw(w, raw)
				return nil
			}

			if err := WriteJson(w, http.StatusOK, newResponse(resp)); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
				return errorx.New(errorx.BadResponse, "Cannot write the response")
			}

			return nil
		}()

		if err != nil {
			status, resp := newErrorResponse(err)
			if err := WriteJson(w, status, resp); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", err)
			}
		}
	}
}

func writeRaw(w http.ResponseWriter, raw *RawResponse) {
	w.Header().Set("Content-Type", raw.ContentType)
	if raw.FileName != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", raw.FileName))
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw.Body)
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
