package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/WatchHubTV/WatchHub/app/models"
	"github.com/WatchHubTV/WatchHub/app/repository"
)

// HandleViewingProfilesList returns the account's viewing profiles, main
// profile first.
func HandleViewingProfilesList(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	profiles, err := repository.GetGlobalFactory().GetViewingProfileRepository().ListByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load profiles")
	}

	return c.JSON(fiber.Map{
		"profiles": profiles,
		"max":      models.MaxViewingProfiles,
	})
}

// HandleViewingProfileCreate adds a viewing profile. Accounts are capped at
// four profiles and the first one automatically becomes the main profile.
func HandleViewingProfileCreate(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	profile := &models.ViewingProfile{
		UserID:   userID,
		Name:     c.FormValue("name"),
		AvatarID: c.FormValue("avatar_id"),
		Type:     c.FormValue("type", models.ProfileTypeAdult),
	}
	if err := profile.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	repo := repository.GetGlobalFactory().GetViewingProfileRepository()
	count, err := repo.CountByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load profiles")
	}
	if count >= models.MaxViewingProfiles {
		return jsonError(c, fiber.StatusConflict, "profile limit reached")
	}
	profile.IsMain = count == 0

	if err := repo.Create(profile); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not create profile")
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

// HandleViewingProfileUpdate renames or retypes a viewing profile.
func HandleViewingProfileUpdate(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid profile id")
	}

	repo := repository.GetGlobalFactory().GetViewingProfileRepository()
	profile, err := repo.GetByID(userID, uint(id))
	if err != nil || profile == nil {
		return jsonError(c, fiber.StatusNotFound, "profile not found")
	}

	if name := c.FormValue("name"); name != "" {
		profile.Name = name
	}
	if avatar := c.FormValue("avatar_id"); avatar != "" {
		profile.AvatarID = avatar
	}
	if profileType := c.FormValue("type"); profileType != "" {
		profile.Type = profileType
	}
	if err := profile.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	if err := repo.Update(profile); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not update profile")
	}

	return c.JSON(profile)
}

// HandleViewingProfileDelete removes a viewing profile. The main profile
// cannot be deleted.
func HandleViewingProfileDelete(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid profile id")
	}

	repo := repository.GetGlobalFactory().GetViewingProfileRepository()
	profile, err := repo.GetByID(userID, uint(id))
	if err != nil || profile == nil {
		return jsonError(c, fiber.StatusNotFound, "profile not found")
	}
	if profile.IsMain {
		return jsonError(c, fiber.StatusConflict, "the main profile cannot be deleted")
	}

	if err := repo.Delete(userID, uint(id)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not delete profile")
	}

	return c.JSON(fiber.Map{
		"message": "profile deleted",
	})
}
