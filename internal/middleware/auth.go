package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/szigetelo/backoffice/internal/modules/handler"
	"github.com/szigetelo/backoffice/internal/modules/serializer"
	"github.com/szigetelo/backoffice/internal/modules/service"
)

// Identify resolves an optional bearer API token to a user and stores it in the
// context for audit attribution. Requests without a token pass through anonymously;
// a token that does not resolve is rejected.
func Identify(users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.Next()
			return
		}

		ctx, span := otel.Tracer("middleware").Start(c.Request.Context(), "identify",
			trace.WithAttributes(attribute.String("middleware", "identify")))

		if !strings.HasPrefix(auth, "Bearer ") {
			span.SetAttributes(attribute.Bool("authenticated", false))
			span.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		user, err := users.Identify(ctx, strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				span.SetAttributes(attribute.Bool("authenticated", false))
				span.End()
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
				return
			}
			span.RecordError(err)
			span.End()
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
			return
		}

		// tag the request span so traces can be filtered per user
		rootSpan := trace.SpanFromContext(c.Request.Context())
		if rootSpan.SpanContext().IsValid() {
			rootSpan.SetAttributes(attribute.String("user_id", user.ID.String()))
		}
		span.SetAttributes(
			attribute.String("user_id", user.ID.String()),
			attribute.Bool("authenticated", true),
		)
		span.End()

		c.Set(handler.ContextUserKey, user)
		c.Next()
	}
}
