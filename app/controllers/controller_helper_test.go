package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClientIPPrefersCloudflareHeader(t *testing.T) {
	app := fiber.New()
	app.Get("/ip", func(c *fiber.Ctx) error {
		return c.SendString(GetClientIP(c))
	})

	req := httptest.NewRequest("GET", "/ip", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.7")
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "203.0.113.7", string(body))
}

func TestGetClientIPUsesFirstForwardedAddress(t *testing.T) {
	app := fiber.New()
	app.Get("/ip", func(c *fiber.Ctx) error {
		return c.SendString(GetClientIP(c))
	})

	req := httptest.NewRequest("GET", "/ip", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "198.51.100.1", string(body))
}

func TestExtractUserDefaults(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"id":        ExtractUserID(c),
			"name":      ExtractUsername(c),
			"logged_in": isLoggedIn(c),
		})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)

	var out struct {
		ID       uint   `json:"id"`
		Name     string `json:"name"`
		LoggedIn bool   `json:"logged_in"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Zero(t, out.ID)
	assert.Empty(t, out.Name)
	assert.False(t, out.LoggedIn)
}

func TestExtractUserFromLocals(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(USER_ID, uint(42))
		c.Locals(USER_NAME, "carlos")
		c.Locals(FROM_PROTECTED, true)
		return c.Next()
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"id":        ExtractUserID(c),
			"name":      ExtractUsername(c),
			"logged_in": isLoggedIn(c),
		})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)

	var out struct {
		ID       uint   `json:"id"`
		Name     string `json:"name"`
		LoggedIn bool   `json:"logged_in"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, uint(42), out.ID)
	assert.Equal(t, "carlos", out.Name)
	assert.True(t, out.LoggedIn)
}

func TestHandlePricingReturnsCatalog(t *testing.T) {
	app := fiber.New()
	app.Get("/pricing", HandlePricing)

	resp, err := app.Test(httptest.NewRequest("GET", "/pricing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Plans []struct {
			Tier  string  `json:"tier"`
			Price float64 `json:"price"`
		} `json:"plans"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Plans, 3)
	assert.Equal(t, "basic", out.Plans[0].Tier)
	assert.Equal(t, "premium", out.Plans[2].Tier)
	assert.Less(t, out.Plans[0].Price, out.Plans[2].Price)
}
