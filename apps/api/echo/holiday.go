package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/holiday"
	"github.com/trezcool/shule/core/user"
)

type holidayApi struct {
	svc      *holiday.Service
	validate *validator.Validate
}

func registerHolidayAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *holiday.Service, validate *validator.Validate) {
	api := holidayApi{
		svc:      svc,
		validate: validate,
	}

	admin := roleRequired(user.RoleAdmin)

	hg := g.Group("/holidays", jwt)
	hg.POST("", api.create, admin)
	hg.GET("", api.query)
	hg.GET("/upcoming", api.upcoming)
	hg.GET("/statistics", api.statistics)
	hg.PUT("/:id", api.update, admin)
	hg.DELETE("/:id", api.destroy, admin)
}

func (api *holidayApi) create(ctx echo.Context) error {
	var data holiday.NewHoliday
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHoliday")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	hol, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating holiday")
	}
	return ctx.JSON(http.StatusCreated, hol)
}

func (api *holidayApi) query(ctx echo.Context) error {
	month, year, err := monthYearParams(ctx)
	if err != nil {
		return err
	}

	holidays, err := api.svc.Query(month, year, core.CleanString(ctx.QueryParam("type"), true /* lower */))
	if err != nil {
		return errors.Wrap(err, "querying holidays")
	}
	if holidays == nil {
		holidays = []holiday.Holiday{}
	}
	return ctx.JSON(http.StatusOK, holidays)
}

func (api *holidayApi) upcoming(ctx echo.Context) error {
	holidays, err := api.svc.Upcoming()
	if err != nil {
		return errors.Wrap(err, "querying upcoming holidays")
	}
	if holidays == nil {
		holidays = []holiday.Holiday{}
	}
	return ctx.JSON(http.StatusOK, holidays)
}

func (api *holidayApi) statistics(ctx echo.Context) error {
	stats, err := api.svc.Statistics()
	if err != nil {
		return errors.Wrap(err, "computing holiday statistics")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *holidayApi) update(ctx echo.Context) error {
	var data holiday.NewHoliday
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHoliday")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	hol, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating holiday")
	}
	return ctx.JSON(http.StatusOK, hol)
}

func (api *holidayApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting holiday")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// monthYearParams reads ?month=&year=. The month window only applies when
// both are given; otherwise the listing is unfiltered.
func monthYearParams(ctx echo.Context) (time.Month, int, error) {
	var (
		month time.Month
		year  int
	)
	if raw := ctx.QueryParam("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid month")
		}
		month = time.Month(m)
	}
	if raw := ctx.QueryParam("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		year = y
	}
	if month == 0 || year == 0 {
		return 0, 0, nil
	}
	return month, year, nil
}
