package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/Payphone-Digital/shortlink/internal/constants"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
	"github.com/Payphone-Digital/shortlink/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const ginKeyValidatedBody = "validated_body"

// MsgInvalidJSON is returned when the body cannot be decoded at all.
const MsgInvalidJSON = "Invalid JSON format"

type ValidationMiddleware struct {
	validate *validator.Validate
}

// NewValidationMiddleware validates the `binding` tags used by the request DTOs
// and reports fields by their JSON names.
func NewValidationMiddleware() *ValidationMiddleware {
	validate := validator.New()
	validate.SetTagName("binding")
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return &ValidationMiddleware{validate: validate}
}

// ValidateRequestBody decodes the body into factory(), validates it and stores
// it for the handler. The first failure becomes the envelope message and all
// failures go into details.
func (m *ValidationMiddleware) ValidateRequestBody(factory func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		var bodyBytes []byte
		if c.Request.Body != nil {
			var err error
			bodyBytes, err = io.ReadAll(c.Request.Body)
			if err != nil {
				logger.GetLogger().Error("Middleware: Failed to read request body",
					zap.String("client_ip", clientIP),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
				c.AbortWithStatusJSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, nil))
				return
			}
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		request := factory()

		if len(bytes.TrimSpace(bodyBytes)) > 0 {
			if err := json.Unmarshal(bodyBytes, request); err != nil {
				logger.GetLogger().Warn("Middleware: JSON unmarshaling failed",
					zap.String("client_ip", clientIP),
					zap.String("path", c.Request.URL.Path),
					zap.Int("body_size", len(bodyBytes)),
					zap.Error(err),
				)
				c.AbortWithStatusJSON(http.StatusBadRequest, constants.BuildErrorResponse(MsgInvalidJSON, err.Error()))
				return
			}
		}

		if err := m.validate.Struct(request); err != nil {
			var fieldErrors validator.ValidationErrors
			if !errors.As(err, &fieldErrors) {
				c.AbortWithStatusJSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgValidationFailed, nil))
				return
			}

			validationErrors := make([]string, 0, len(fieldErrors))
			for _, e := range fieldErrors {
				validationErrors = append(validationErrors, messageFor(e))
			}

			logger.GetLogger().Warn("Middleware: Request validation failed",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path),
				zap.Strings("validation_errors", validationErrors),
			)

			c.AbortWithStatusJSON(http.StatusBadRequest, constants.BuildErrorResponse(validationErrors[0], validationErrors))
			return
		}

		c.Set(ginKeyValidatedBody, request)
		c.Next()
	}
}

func messageFor(e validator.FieldError) string {
	if fieldMessages := validation.CustomMessage(e.Field()); fieldMessages != nil {
		if msg, exists := fieldMessages[e.Tag()]; exists {
			return msg
		}
	}
	return validation.DefaultMessage(e.Field(), e.Tag(), e.Param())
}

// ValidatedBody returns the request decoded by ValidateRequestBody.
func ValidatedBody[T any](c *gin.Context) (*T, bool) {
	v, exists := c.Get(ginKeyValidatedBody)
	if !exists {
		return nil, false
	}
	req, ok := v.(*T)
	return req, ok
}
