package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/user"
)

type leaveApi struct {
	svc      *leave.Service
	validate *validator.Validate
}

func registerLeaveAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *leave.Service, validate *validator.Validate) {
	api := leaveApi{
		svc:      svc,
		validate: validate,
	}

	lg := g.Group("/leaves", jwt)
	lg.POST("", api.submit, roleRequired(user.RoleStudent))
	lg.GET("/my-leaves", api.mine, roleRequired(user.RoleStudent))
	lg.GET("/all", api.queryAll, roleRequired(user.RoleAdmin))
	lg.PUT("/:id", api.decide, roleRequired(user.RoleAdmin))
}

func (api *leaveApi) submit(ctx echo.Context) error {
	var data leave.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	req, err := api.svc.Submit(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "submitting leave request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *leaveApi) mine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reqs, err := api.svc.ForStudent(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying student leave requests")
	}
	if reqs == nil {
		reqs = []leave.Request{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *leaveApi) queryAll(ctx echo.Context) error {
	reqs, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying leave requests")
	}
	if reqs == nil {
		reqs = []leave.Request{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *leaveApi) decide(ctx echo.Context) error {
	var data leave.Decision
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Decision")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	req, err := api.svc.Decide(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "deciding leave request")
	}
	return ctx.JSON(http.StatusOK, req)
}
