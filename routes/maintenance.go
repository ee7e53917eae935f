package routes

import (
	"time"

	"github.com/davidfemi/Yelp-Camp-sub001/utils"

	"github.com/kataras/iris/v12"
)

// Operator endpoints. Callers identify themselves with the X-Operator
// header; every trigger is audited.

// POST /api/maintenance/sweep
func TriggerSweep(ctx iris.Context) {
	result, err := bookingService().Sweep(time.Now())
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Sweep failed, safe to retry", ctx)
		return
	}

	utils.Audit(ctx, "maintenance.sweep", "reservation", 0, result)
	ctx.JSON(iris.Map{"data": result, "meta": iris.Map{}, "links": iris.Map{}})
}

// POST /api/maintenance/reconcile
func TriggerReconcile(ctx iris.Context) {
	fixed, err := bookingService().Reconcile()
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Reconcile failed, safe to retry", ctx)
		return
	}

	utils.Audit(ctx, "maintenance.reconcile", "campground", 0, iris.Map{"fixed": fixed})
	ctx.JSON(iris.Map{"data": iris.Map{"fixedCampgrounds": fixed}, "meta": iris.Map{}, "links": iris.Map{}})
}

// GET /api/maintenance/expiration-stats
func GetExpirationStats(ctx iris.Context) {
	stats, err := bookingService().ExpirationStats(time.Now())
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Could not compute expiration stats", ctx)
		return
	}

	ctx.JSON(iris.Map{"data": stats, "meta": iris.Map{}, "links": iris.Map{}})
}
