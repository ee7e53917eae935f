package routes

import (
	"github.com/davidfemi/Yelp-Camp-sub001/models"
	"github.com/davidfemi/Yelp-Camp-sub001/storage"
	"github.com/davidfemi/Yelp-Camp-sub001/utils"

	"github.com/kataras/iris/v12"
)

// GET /api/campgrounds
func GetCampgrounds(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	storage.DB.Model(&models.Campground{}).Count(&total)

	var campgrounds []models.Campground
	res := storage.DB.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&campgrounds)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	utils.JSONPage(ctx, campgrounds, page, perPage, total)
}

// GET /api/campgrounds/{id}
func GetCampgroundByID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var campground models.Campground
	if err := storage.DB.First(&campground, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Campground not found", ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": campground})
}
