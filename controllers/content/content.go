// Package content serves the static catalog behind the marketing pages.
package content

import (
	"farmhith/constants"
	"farmhith/types"

	"github.com/gofiber/fiber/v2"
)

func ok(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Data:    data,
	})
}

func GetPackages(c *fiber.Ctx) error {
	return ok(c, "Service packages fetched successfully", constants.ServicePackages)
}

func GetPackage(c *fiber.Ctx) error {
	pkg, found := constants.FindPackage(c.Params("id"))
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Service package not found.",
		})
	}
	return ok(c, "Service package fetched successfully", pkg)
}

func GetStates(c *fiber.Ctx) error {
	return ok(c, "States fetched successfully", constants.IndianStates)
}

func GetCrops(c *fiber.Ctx) error {
	return ok(c, "Crop types fetched successfully", constants.CropTypes)
}

func GetTestimonials(c *fiber.Ctx) error {
	return ok(c, "Testimonials fetched successfully", constants.Testimonials)
}

func GetPartners(c *fiber.Ctx) error {
	return ok(c, "Partners fetched successfully", constants.Partners)
}

// GetBlogPosts filters by the optional ?category= query.
func GetBlogPosts(c *fiber.Ctx) error {
	return ok(c, "Blog posts fetched successfully", constants.BlogPostsByCategory(c.Query("category")))
}

func GetStats(c *fiber.Ctx) error {
	return ok(c, "Stats fetched successfully", constants.Stats)
}

func GetPages(c *fiber.Ctx) error {
	return ok(c, "Pages fetched successfully", constants.Pages)
}
