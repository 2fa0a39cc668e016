package flash

import (
	"github.com/gofiber/fiber/v2"
)

// FlashKey is the Locals key the user context middleware stores the current
// request's flash payload under.
const FlashKey = "flash"

// Set stores a flash payload for the current request.
func Set(c *fiber.Ctx, message fiber.Map) {
	c.Locals(FlashKey, message)
}

// Get returns the flash payload for the current request, or nil when the
// redirect that led here carried none.
func Get(c *fiber.Ctx) fiber.Map {
	msg, ok := c.Locals(FlashKey).(fiber.Map)
	if !ok {
		return nil
	}

	return msg
}
