package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/section"
	"github.com/trezcool/shule/core/user"
)

type sectionApi struct {
	svc      *section.Service
	validate *validator.Validate
}

func registerSectionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *section.Service, validate *validator.Validate) {
	api := sectionApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/admin/sections", jwt, roleRequired(user.RoleAdmin))
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.DELETE("/:id", api.destroy)

	sg.POST("/:id/students", api.assignStudents)
	sg.GET("/:id/students", api.listStudents)
	sg.DELETE("/:id/students/:studentId", api.removeStudent)

	sg.POST("/:id/teachers", api.assignTeachers)
	sg.GET("/:id/available-teachers", api.availableTeachers)
	sg.DELETE("/:id/teachers/:teacherId", api.removeTeacher)
}

func (api *sectionApi) create(ctx echo.Context) error {
	var data section.NewSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSection")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sec, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating section")
	}
	return ctx.JSON(http.StatusCreated, sec)
}

func (api *sectionApi) query(ctx echo.Context) error {
	sections, err := api.svc.QueryAllDetailed()
	if err != nil {
		return errors.Wrap(err, "querying sections")
	}
	if sections == nil {
		sections = []section.Detail{}
	}
	return ctx.JSON(http.StatusOK, sections)
}

func (api *sectionApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting section")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sectionApi) assignStudents(ctx echo.Context) error {
	var data section.AssignStudents
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignStudents")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sec, err := api.svc.AssignStudents(ctx.Param("id"), data.StudentIDs)
	if err != nil {
		return errors.Wrap(err, "assigning students")
	}
	return ctx.JSON(http.StatusOK, sec)
}

func (api *sectionApi) listStudents(ctx echo.Context) error {
	students, err := api.svc.Students(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing section students")
	}
	available, err := api.svc.AvailableStudents(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing available students")
	}
	return ctx.JSON(http.StatusOK, SectionStudentsResponse{
		Students:          students,
		AvailableStudents: available,
	})
}

func (api *sectionApi) removeStudent(ctx echo.Context) error {
	sec, err := api.svc.RemoveStudent(ctx.Param("id"), ctx.Param("studentId"))
	if err != nil {
		return errors.Wrap(err, "removing student")
	}
	return ctx.JSON(http.StatusOK, sec)
}

func (api *sectionApi) assignTeachers(ctx echo.Context) error {
	var data section.AssignTeachers
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignTeachers")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sec, err := api.svc.AssignTeachers(ctx.Param("id"), data.TeacherIDs)
	if err != nil {
		return errors.Wrap(err, "assigning teachers")
	}
	return ctx.JSON(http.StatusOK, sec)
}

func (api *sectionApi) availableTeachers(ctx echo.Context) error {
	teachers, err := api.svc.AvailableTeachers(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing available teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *sectionApi) removeTeacher(ctx echo.Context) error {
	sec, err := api.svc.RemoveTeacher(ctx.Param("id"), ctx.Param("teacherId"))
	if err != nil {
		return errors.Wrap(err, "removing teacher")
	}
	return ctx.JSON(http.StatusOK, sec)
}

type SectionStudentsResponse struct {
	Students          []section.Member `json:"students"`
	AvailableStudents []section.Member `json:"available_students"`
}
