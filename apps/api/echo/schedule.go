package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/user"
)

type timetableApi struct {
	svc      *schedule.Service
	validate *validator.Validate
}

func registerTimetableAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *schedule.Service, validate *validator.Validate) {
	api := timetableApi{
		svc:      svc,
		validate: validate,
	}

	admin := roleRequired(user.RoleAdmin)

	tg := g.Group("/timetable", jwt)
	tg.POST("", api.create, admin)
	tg.GET("/section/:id", api.bySection)
	tg.PUT("/:id", api.update, admin)
	tg.DELETE("/:id", api.destroy, admin)

	// legacy alias kept for older admin frontends
	g.POST("/admin/timetable", api.create, jwt, admin)
}

func (api *timetableApi) create(ctx echo.Context) error {
	var data schedule.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	entry, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating timetable entry")
	}
	return ctx.JSON(http.StatusCreated, entry)
}

func (api *timetableApi) bySection(ctx echo.Context) error {
	entries, err := api.svc.BySection(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying section timetable")
	}
	if entries == nil {
		entries = []schedule.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *timetableApi) update(ctx echo.Context) error {
	var data schedule.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	entry, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating timetable entry")
	}
	return ctx.JSON(http.StatusOK, entry)
}

func (api *timetableApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting timetable entry")
	}
	return ctx.NoContent(http.StatusNoContent)
}
