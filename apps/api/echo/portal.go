package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/section"
	"github.com/trezcool/shule/core/user"
)

// portalApi serves the student and teacher self-service views.
type portalApi struct {
	users    *user.Service
	sections *section.Service
	entries  *schedule.Service
}

func registerPortalAPI(g *echo.Group, jwt echo.MiddlewareFunc, users *user.Service, sections *section.Service, entries *schedule.Service) {
	api := portalApi{
		users:    users,
		sections: sections,
		entries:  entries,
	}

	sg := g.Group("/student", jwt, roleRequired(user.RoleStudent))
	sg.GET("/me", api.studentMe)
	sg.GET("/timetable", api.studentTimetable)

	tg := g.Group("/teacher", jwt, roleRequired(user.RoleTeacher))
	tg.GET("/me", api.teacherMe)
	tg.GET("/timetable", api.teacherTimetable)
}

func (api *portalApi) studentMe(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	resp := StudentProfileResponse{User: usr}
	sec, err := api.sections.OfStudent(usr.ID)
	switch errors.Cause(err) {
	case nil:
		resp.Section = &sec
	case section.ErrNotFound:
		// not assigned yet; section stays null
	default:
		return errors.Wrap(err, "finding student section")
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *portalApi) studentTimetable(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sec, err := api.sections.OfStudent(claims.Subject)
	if err != nil {
		if errors.Cause(err) == section.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "not assigned to any section")
		}
		return errors.Wrap(err, "finding student section")
	}

	entries, err := api.entries.BySection(sec.ID)
	if err != nil {
		return errors.Wrap(err, "querying section timetable")
	}
	if entries == nil {
		entries = []schedule.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *portalApi) teacherMe(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sections, err := api.sections.OfTeacher(usr.ID)
	if err != nil {
		return errors.Wrap(err, "finding teacher sections")
	}
	if sections == nil {
		sections = []section.Section{}
	}
	return ctx.JSON(http.StatusOK, TeacherProfileResponse{User: usr, Sections: sections})
}

func (api *portalApi) teacherTimetable(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	entries, err := api.entries.ByTeacher(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying teacher timetable")
	}
	if entries == nil {
		entries = []schedule.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

type (
	StudentProfileResponse struct {
		User    user.User        `json:"user"`
		Section *section.Section `json:"section"`
	}

	TeacherProfileResponse struct {
		User     user.User         `json:"user"`
		Sections []section.Section `json:"sections"`
	}
)
