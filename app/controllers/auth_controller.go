package controllers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/WatchHubTV/WatchHub/app/models"
	"github.com/WatchHubTV/WatchHub/app/repository"
	"github.com/WatchHubTV/WatchHub/internal/pkg/constants"
	"github.com/WatchHubTV/WatchHub/internal/pkg/database"
	"github.com/WatchHubTV/WatchHub/internal/pkg/device"
	"github.com/WatchHubTV/WatchHub/internal/pkg/mail"
	"github.com/WatchHubTV/WatchHub/internal/pkg/session"
	"github.com/WatchHubTV/WatchHub/internal/pkg/twofactor"
)

// session key holding the user ID between the password step and the TOTP step
const totpPendingKey = "totp_pending_user"

// HandleAuthRegister creates a new account and sends the activation email.
func HandleAuthRegister(c *fiber.Ctx) error {
	name := c.FormValue("name")
	email := c.FormValue("email")
	password := c.FormValue("password")

	user, err := models.CreateUser(name, email, password)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	user.Status = models.STATUS_INACTIVE
	if err := user.GenerateActivationToken(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not create activation token")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if existing, _ := userRepo.GetByEmail(email); existing != nil {
		return jsonError(c, fiber.StatusConflict, "an account with this email already exists")
	}

	if err := userRepo.Create(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not create account")
	}

	// Profile row exists from day one so denormalized subscription fields
	// always have a home.
	if _, err := repository.GetGlobalFactory().GetProfileRepository().GetOrCreate(user.ID, user.Name); err != nil {
		log.Printf("profile creation for user %d failed: %v", user.ID, err)
	}

	go func() {
		if err := mail.SendActivationEmail(user.Email, user.Name, user.ActivationToken); err != nil {
			log.Printf("activation mail for %s failed: %v", user.Email, err)
		}
	}()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "account created, please check your inbox to activate it",
	})
}

// HandleAuthActivate handles the activation link from the email.
func HandleAuthActivate(c *fiber.Ctx) error {
	token := c.Query("token")
	fm := fiber.Map{"type": "error"}

	if token == "" {
		fm["message"] = "missing activation token"
		return flash.WithError(c, fm).Redirect(constants.HomeRoute)
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByActivationToken(token)
	if err != nil || user == nil {
		fm["message"] = "invalid or expired activation link"
		return flash.WithError(c, fm).Redirect(constants.HomeRoute)
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := userRepo.Update(user); err != nil {
		fm["message"] = "activation failed, please try again"
		return flash.WithError(c, fm).Redirect(constants.HomeRoute)
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Your account is active. Welcome to WatchHub!",
	}

	return flash.WithSuccess(c, fm).Redirect(constants.LoginRoute)
}

// HandleAuthLogin verifies credentials. Accounts with TOTP enabled get a
// second verification step before the session is established.
func HandleAuthLogin(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByEmail(email)
	if err != nil || user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	if !user.CheckPassword(password) {
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	if user.Status == models.STATUS_INACTIVE {
		return jsonError(c, fiber.StatusForbidden, "please activate your account first")
	}
	if user.Status == models.STATUS_DISABLED {
		return jsonError(c, fiber.StatusForbidden, "this account is disabled")
	}

	if user.TOTPEnabled {
		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, fmt.Sprintf("something went wrong: %s", err))
		}
		sess.Set(totpPendingKey, user.ID)
		if err := sess.Save(); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, fmt.Sprintf("something went wrong: %s", err))
		}

		return c.JSON(fiber.Map{
			"totp_required": true,
		})
	}

	return completeLogin(c, user)
}

// HandleAuthVerifyTOTP finishes a login for accounts with TOTP enabled.
func HandleAuthVerifyTOTP(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, fmt.Sprintf("something went wrong: %s", err))
	}

	pending := sess.Get(totpPendingKey)
	userID, ok := pending.(uint)
	if !ok || userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "no pending login")
	}

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userID)
	if err != nil || user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "no pending login")
	}

	svc := twofactor.NewServiceFromDB(database.GetDB(), getClientStore())
	valid, err := svc.Verify(c.Context(), user, c.FormValue("code"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "verification failed")
	}
	if !valid {
		return jsonError(c, fiber.StatusUnauthorized, "invalid verification code")
	}

	sess.Delete(totpPendingKey)
	if err := sess.Save(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, fmt.Sprintf("something went wrong: %s", err))
	}

	return completeLogin(c, user)
}

// HandleAuthForgotPassword sends a password reset link. The response is the
// same whether or not the address has an account, so the endpoint cannot be
// used to probe for registered emails.
func HandleAuthForgotPassword(c *fiber.Ctx) error {
	email := c.FormValue("email")
	if email == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "email is required")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByEmail(email)
	if err == nil && user != nil && user.Status != models.STATUS_DISABLED {
		if err := user.GenerateResetToken(); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "could not create reset token")
		}
		if err := userRepo.Update(user); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "could not create reset token")
		}

		go func() {
			if err := mail.SendPasswordResetEmail(user.Email, user.Name, user.ResetToken); err != nil {
				log.Printf("reset mail for %s failed: %v", user.Email, err)
			}
		}()
	}

	return c.JSON(fiber.Map{
		"message": "if an account exists for this address, a reset link is on its way",
	})
}

// HandleAuthResetPassword sets a new password for a valid, unexpired reset
// token and invalidates the token.
func HandleAuthResetPassword(c *fiber.Ctx) error {
	token := c.FormValue("token")
	password := c.FormValue("password")

	if token == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "token is required")
	}
	if len(password) < 6 {
		return jsonError(c, fiber.StatusUnprocessableEntity, "password must be at least 6 characters")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByResetToken(token)
	if err != nil || user == nil || !user.ResetTokenValid() {
		return jsonError(c, fiber.StatusUnauthorized, "invalid or expired reset link")
	}

	if err := user.SetPassword(password); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not update password")
	}
	user.ClearResetToken()
	if err := userRepo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not update password")
	}

	return c.JSON(fiber.Map{
		"message": "password updated, you can log in now",
	})
}

// HandleAuthLogout destroys the session and drops cached entitlements.
func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{"type": "error"}

	userID := ExtractUserID(c)

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"
		return flash.WithError(c, fm).Redirect(constants.LoginRoute)
	}

	if err := sess.Destroy(); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)
		return flash.WithError(c, fm).Redirect(constants.LoginRoute)
	}

	if userID != 0 && reconciler != nil {
		reconciler.Store().Clear(userID)
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "See you soon!",
	}

	c.Locals(FROM_PROTECTED, false)

	return flash.WithSuccess(c, fm).Redirect(constants.LoginRoute)
}

func completeLogin(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, fmt.Sprintf("something went wrong: %s", err))
	}

	sess.Set(AUTH_KEY, true)
	sess.Set(USER_ID, user.ID)
	sess.Set(USER_NAME, user.Name)
	sess.Set(USER_IS_ADMIN, user.IsAdmin())

	if err := sess.Save(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, fmt.Sprintf("something went wrong: %s", err))
	}

	info := device.Detect(c.Get("User-Agent"))

	now := time.Now()
	user.LastLoginAt = &now
	user.LastDevice = info.Name
	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if err := userRepo.Update(user); err != nil {
		log.Printf("recording login for user %d failed: %v", user.ID, err)
	}

	profileRepo := repository.GetGlobalFactory().GetProfileRepository()
	if profile, err := profileRepo.GetOrCreate(user.ID, user.Name); err == nil {
		profile.LastLoginAt = &now
		if err := profileRepo.Update(profile); err != nil {
			log.Printf("updating profile login time for user %d failed: %v", user.ID, err)
		}
	}

	// Warm the entitlement cache so the first page load has a tier.
	if reconciler != nil {
		go reconciler.Reconcile(context.Background(), user.ID)
	}

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"is_admin": user.IsAdmin(),
		"device":   info.Name,
	})
}
