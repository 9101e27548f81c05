package handlers

import (
	"github.com/alxtravel/alx_travel_app/database"
	"github.com/alxtravel/alx_travel_app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ListingRequest struct {
	Title         string  `json:"title" validate:"required,min=3,max=255"`
	Description   string  `json:"description"`
	Location      string  `json:"location" validate:"required"`
	PricePerNight float64 `json:"price_per_night" validate:"required,gt=0"`
	PhotoURL      *string `json:"photo_url,omitempty" validate:"omitempty,url"`
}

func CreateListing(c *fiber.Ctx) error {
	hostID := currentUserID(c)

	var req ListingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	listing := models.Listing{
		HostID:        hostID,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		PhotoURL:      req.PhotoURL,
	}
	if err := database.DB.Create(&listing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create listing"})
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

func GetListings(c *fiber.Ctx) error {
	query := database.DB.Preload("Host")
	if location := c.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}

	var listings []models.Listing
	if err := query.Order("created_at desc").Find(&listings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listings"})
	}

	return c.JSON(listings)
}

func GetListing(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing ID format"})
	}

	var listing models.Listing
	if err := database.DB.Preload("Host").First(&listing, "id = ?", listingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
	}

	return c.JSON(listing)
}

func UpdateListing(c *fiber.Ctx) error {
	hostID := currentUserID(c)

	listingID, err := uuid.Parse(c.Params("listingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing ID format"})
	}

	var listing models.Listing
	if err := database.DB.First(&listing, "id = ?", listingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
	}
	if listing.HostID != hostID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your listing"})
	}

	var req ListingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	listing.Title = req.Title
	listing.Description = req.Description
	listing.Location = req.Location
	listing.PricePerNight = req.PricePerNight
	listing.PhotoURL = req.PhotoURL
	if err := database.DB.Save(&listing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update listing"})
	}

	return c.JSON(listing)
}

func DeleteListing(c *fiber.Ctx) error {
	hostID := currentUserID(c)

	listingID, err := uuid.Parse(c.Params("listingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing ID format"})
	}

	var listing models.Listing
	if err := database.DB.First(&listing, "id = ?", listingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
	}
	if listing.HostID != hostID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your listing"})
	}

	if err := database.DB.Delete(&listing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete listing"})
	}

	return c.JSON(fiber.Map{"message": "Listing deleted successfully"})
}
