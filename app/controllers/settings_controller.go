package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/WatchHubTV/WatchHub/app/repository"
	"github.com/WatchHubTV/WatchHub/internal/pkg/database"
	"github.com/WatchHubTV/WatchHub/internal/pkg/device"
	"github.com/WatchHubTV/WatchHub/internal/pkg/entitlements"
	"github.com/WatchHubTV/WatchHub/internal/pkg/localsubs"
	"github.com/WatchHubTV/WatchHub/internal/pkg/payments"
	"github.com/WatchHubTV/WatchHub/internal/pkg/twofactor"
	"github.com/WatchHubTV/WatchHub/internal/pkg/utils"
)

func twofactorService() *twofactor.Service {
	return twofactor.NewServiceFromDB(database.GetDB(), getClientStore())
}

func paymentsManager() *payments.Manager {
	return payments.NewManager(getClientStore())
}

func localsubsManager() *localsubs.Manager {
	return localsubs.NewManager(getClientStore())
}

// ---- profile ----

// HandleProfileGet returns the caller's profile including the denormalized
// subscription fields.
func HandleProfileGet(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	profile, err := repository.GetGlobalFactory().GetProfileRepository().GetOrCreate(userID, ExtractUsername(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load profile")
	}

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userID)
	if err != nil || user == nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load profile")
	}

	avatar := user.AvatarURL
	if avatar == "" {
		avatar = utils.GetGravatarURL(user.Email, 200)
	}

	return c.JSON(fiber.Map{
		"profile":      profile,
		"email":        user.Email,
		"avatar_url":   avatar,
		"totp_enabled": user.TOTPEnabled,
		"last_device":  user.LastDevice,
	})
}

// HandleProfileUpdate updates display name and avatar.
func HandleProfileUpdate(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	profileRepo := repository.GetGlobalFactory().GetProfileRepository()
	profile, err := profileRepo.GetOrCreate(userID, ExtractUsername(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load profile")
	}

	if name := c.FormValue("display_name"); name != "" {
		profile.DisplayName = name
	}
	if avatar := c.FormValue("avatar_url"); avatar != "" {
		profile.AvatarURL = avatar
	}
	if profileType := c.FormValue("profile_type"); profileType != "" {
		profile.ProfileType = profileType
	}

	if err := profileRepo.Update(profile); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not save profile")
	}

	return c.JSON(profile)
}

// ---- two-factor ----

// HandleTOTPEnroll starts TOTP enrollment and returns the provisioning URL.
func HandleTOTPEnroll(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userID)
	if err != nil || user == nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load account")
	}

	enrollment, err := twofactorService().BeginEnrollment(c.Context(), user)
	if err != nil {
		log.Printf("totp enrollment for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not start enrollment")
	}

	return c.JSON(enrollment)
}

// HandleTOTPConfirm verifies the first code and enables TOTP. The response
// carries the backup codes; they are shown exactly once.
func HandleTOTPConfirm(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userID)
	if err != nil || user == nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load account")
	}

	codes, err := twofactorService().Confirm(c.Context(), user, c.FormValue("code"))
	if err != nil {
		switch {
		case errors.Is(err, twofactor.ErrInvalidCode):
			return jsonError(c, fiber.StatusUnprocessableEntity, "invalid verification code")
		case errors.Is(err, twofactor.ErrNoPendingCode):
			return jsonError(c, fiber.StatusConflict, "no enrollment in progress")
		default:
			log.Printf("totp confirm for user %d failed: %v", userID, err)
			return jsonError(c, fiber.StatusInternalServerError, "could not enable two-factor auth")
		}
	}

	return c.JSON(fiber.Map{
		"enabled":      true,
		"backup_codes": codes,
	})
}

// HandleTOTPDisable turns TOTP off and discards backup codes.
func HandleTOTPDisable(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userID)
	if err != nil || user == nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load account")
	}

	if err := twofactorService().Disable(c.Context(), user); err != nil {
		log.Printf("totp disable for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not disable two-factor auth")
	}

	return c.JSON(fiber.Map{
		"enabled": false,
	})
}

// ---- payment methods ----

// HandlePaymentMethodsList returns the caller's saved payment methods.
func HandlePaymentMethodsList(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	methods, err := paymentsManager().List(c.Context(), userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load payment methods")
	}

	return c.JSON(fiber.Map{
		"payment_methods": methods,
	})
}

// HandlePaymentMethodAdd validates and stores a new card.
func HandlePaymentMethodAdd(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	var form payments.AddPaymentMethodForm
	if err := c.BodyParser(&form); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if fieldErrors := form.Validate(); len(fieldErrors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  true,
			"fields": fieldErrors,
		})
	}

	method, err := paymentsManager().Add(c.Context(), userID, form)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not save payment method")
	}

	return c.Status(fiber.StatusCreated).JSON(method)
}

// HandlePaymentMethodRemove deletes a card, promoting another to default if
// the default was removed.
func HandlePaymentMethodRemove(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	err := paymentsManager().Remove(c.Context(), userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, payments.ErrMethodNotFound) {
			return jsonError(c, fiber.StatusNotFound, "payment method not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "could not remove payment method")
	}

	return c.JSON(fiber.Map{
		"removed": true,
	})
}

// HandlePaymentMethodSetDefault marks a card as the default.
func HandlePaymentMethodSetDefault(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	err := paymentsManager().SetDefault(c.Context(), userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, payments.ErrMethodNotFound) {
			return jsonError(c, fiber.StatusNotFound, "payment method not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "could not update payment method")
	}

	return c.JSON(fiber.Map{
		"default": true,
	})
}

// ---- card-based subscriptions ----

// HandleLocalSubscriptionGet returns the caller's card-based subscription.
func HandleLocalSubscriptionGet(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	sub, err := localsubsManager().Current(c.Context(), userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load subscription")
	}

	return c.JSON(fiber.Map{
		"subscription": sub,
	})
}

// HandleLocalSubscribe starts a card-based subscription.
func HandleLocalSubscribe(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	tier, ok := entitlements.TierFromPlanName(c.FormValue("plan"))
	if !ok {
		return jsonError(c, fiber.StatusUnprocessableEntity, "unknown plan")
	}

	sub, err := localsubsManager().Subscribe(c.Context(), userID, tier, c.FormValue("payment_method_id"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not start subscription")
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

// HandleLocalSubscriptionChange switches the plan, recorded as upgrade or
// downgrade depending on price.
func HandleLocalSubscriptionChange(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	tier, ok := entitlements.TierFromPlanName(c.FormValue("plan"))
	if !ok {
		return jsonError(c, fiber.StatusUnprocessableEntity, "unknown plan")
	}

	sub, err := localsubsManager().ChangePlan(c.Context(), userID, tier)
	if err != nil {
		if errors.Is(err, localsubs.ErrNoSubscription) {
			return jsonError(c, fiber.StatusNotFound, "no active subscription")
		}
		return jsonError(c, fiber.StatusInternalServerError, "could not change plan")
	}

	return c.JSON(sub)
}

// HandleLocalSubscriptionCancel cancels at period end.
func HandleLocalSubscriptionCancel(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	sub, err := localsubsManager().Cancel(c.Context(), userID)
	if err != nil {
		if errors.Is(err, localsubs.ErrNoSubscription) {
			return jsonError(c, fiber.StatusNotFound, "no active subscription")
		}
		return jsonError(c, fiber.StatusInternalServerError, "could not cancel subscription")
	}

	return c.JSON(sub)
}

// HandleLocalSubscriptionHistory returns the subscription event log, newest
// first.
func HandleLocalSubscriptionHistory(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	history, err := localsubsManager().History(c.Context(), userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load history")
	}

	return c.JSON(fiber.Map{
		"history": history,
	})
}

// ---- devices ----

// HandleDeviceInfo returns what the backend detects for the current request
// plus the device recorded on the last login.
func HandleDeviceInfo(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	info := device.Detect(c.Get("User-Agent"))

	lastDevice := ""
	if user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userID); err == nil && user != nil {
		lastDevice = user.LastDevice
	}

	return c.JSON(fiber.Map{
		"current":     info,
		"last_device": lastDevice,
	})
}
