package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "Valid Bearer", header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "Lowercase Scheme", header: "bearer abc", expected: "abc"},
		{name: "Missing Header", header: "", expected: ""},
		{name: "Wrong Scheme", header: "Basic dXNlcjpwYXNz", expected: ""},
		{name: "No Token", header: "Bearer", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got string
			app.Get("/probe", func(c *fiber.Ctx) error {
				got = bearerToken(c)
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "Validation", err: models.NewValidationError("bad"), expected: fiber.StatusBadRequest},
		{name: "Authentication", err: models.NewAuthenticationError("who"), expected: fiber.StatusUnauthorized},
		{name: "Authorization", err: models.NewAuthorizationError("no"), expected: fiber.StatusForbidden},
		{name: "Not Found", err: models.NewNotFoundError("post", "p1"), expected: fiber.StatusNotFound},
		{name: "Internal", err: models.NewInternalError(assert.AnError), expected: fiber.StatusInternalServerError},
		{name: "Plain Error", err: assert.AnError, expected: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.StatusForError(tt.err))
		})
	}
}
