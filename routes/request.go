package routes

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"task-api/models"
)

const maxBodyBytes = 1 << 20 // 1 MiB

const (
	msgInvalidBody = "Invalid request body"
	msgBodyTooLong = "Request body too large"
	msgInternal    = "Internal server error"
)

var (
	errEmptyBody    = errors.New("empty request body")
	errInvalidBody  = errors.New("invalid request body")
	errBodyTooLarge = errors.New("request body too large")
)

// decodeJSON decodes exactly one JSON value into dst, rejecting unknown
// fields, then runs the binding tags on dst.
func decodeJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return errEmptyBody
	}
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errEmptyBody
		case errors.As(err, &tooLarge):
			return errBodyTooLarge
		default:
			return errInvalidBody
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errInvalidBody
	}

	return binding.Validator.ValidateStruct(dst)
}

// requestErrorMessage turns a decodeJSON error into the client-facing
// message. emptyBody is used when no body was sent at all.
func requestErrorMessage(err error, emptyBody string) string {
	if errors.Is(err, errEmptyBody) {
		return emptyBody
	}
	if errors.Is(err, errBodyTooLarge) {
		return msgBodyTooLong
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Field() != "Title" {
				continue
			}
			if fe.Tag() == "max" {
				return models.TitleTooLong().Message
			}
			return models.TitleRequired().Message
		}
	}
	return msgInvalidBody
}
