package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/prathomik/sheba/core"
	"github.com/prathomik/sheba/core/certificate"
	"github.com/prathomik/sheba/core/school"
	"github.com/prathomik/sheba/core/user"
)

type schoolApi struct {
	svc        *school.Service
	usrSvc     *user.Service
	certSvc    *certificate.Service
	remarksSvc core.RemarksService
	validate   *validator.Validate
}

func registerSchoolAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *school.Service,
	usrSvc *user.Service,
	certSvc *certificate.Service,
	remarksSvc core.RemarksService,
	validate *validator.Validate,
) {
	api := schoolApi{svc: svc, usrSvc: usrSvc, certSvc: certSvc, remarksSvc: remarksSvc, validate: validate}

	sg := g.Group("/schools")

	// un-authed endpoints
	sg.POST("/register", api.register)

	// authed endpoints
	ag := sg.Group("", jwt)
	ag.GET("", api.query, superAdminMiddleware())

	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("/approve", api.approve, superAdminMiddleware())
	dg.PUT("/reject", api.reject, superAdminMiddleware())
	dg.POST("/subscribe", api.subscribe, schoolStaffMiddleware())
	dg.GET("/insight", api.insight, schoolStaffMiddleware())

	// teacher roster
	tg := dg.Group("/teachers", schoolStaffMiddleware())
	tg.GET("", api.queryTeachers)
	tg.POST("", api.addTeacher)
	tg.DELETE("/:teacherID", api.removeTeacher)
}

// Handlers

func (api *schoolApi) register(ctx echo.Context) error {
	var data school.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sch, err := api.svc.Register(data)
	if err != nil {
		return errors.Wrap(err, "registering school")
	}

	return ctx.JSON(http.StatusCreated, sch)
}

func (api *schoolApi) query(ctx echo.Context) error {
	filter := new(school.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []school.School{})
	}
	filter.Clean()

	schools, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying schools")
	}
	if schools == nil {
		schools = []school.School{}
	}
	return ctx.JSON(http.StatusOK, schools)
}

func (api *schoolApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := scopedSchoolID(claims, ctx.Param("id"))
	if err != nil {
		return err
	}

	sch, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding school by ID")
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) approve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sch, err := api.svc.Approve(claims.Subject, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "approving school")
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) reject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sch, err := api.svc.Reject(claims.Subject, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "rejecting school")
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) subscribe(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := scopedSchoolID(claims, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data school.Subscription
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Subscription")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sch, err := api.svc.Subscribe(claims.Subject, id, data)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "subscribing school")
	}
	return ctx.JSON(http.StatusOK, sch)
}

// InsightResponse is the dashboard performance summary for a school:
// certificate-derived stats plus the generated Bengali insight text.
type InsightResponse struct {
	SchoolName   string  `json:"school_name"`
	StudentCount int     `json:"student_count"`
	AverageGPA   float64 `json:"average_gpa"`
	Insight      string  `json:"insight"`
}

func (api *schoolApi) insight(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := scopedSchoolID(claims, ctx.Param("id"))
	if err != nil {
		return err
	}

	sch, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding school by ID")
	}

	stats, err := api.certSvc.Stats(sch.ID)
	if err != nil {
		return errors.Wrap(err, "aggregating certificate stats")
	}

	insight := api.remarksSvc.SchoolInsight(ctx.Request().Context(), core.SchoolInsightInput{
		SchoolName:   sch.Name,
		StudentCount: stats.StudentCount,
		AverageGPA:   stats.AverageGPA,
	})
	return ctx.JSON(http.StatusOK, InsightResponse{
		SchoolName:   sch.Name,
		StudentCount: stats.StudentCount,
		AverageGPA:   stats.AverageGPA,
		Insight:      insight,
	})
}

func (api *schoolApi) queryTeachers(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := scopedSchoolID(claims, ctx.Param("id"))
	if err != nil {
		return err
	}

	teachers, err := api.usrSvc.TeachersBySchool(id)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []user.User{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *schoolApi) addTeacher(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := scopedSchoolID(claims, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data user.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	data.SchoolID = id
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.usrSvc.AddTeacher(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "adding teacher")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *schoolApi) removeTeacher(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := scopedSchoolID(claims, ctx.Param("id"))
	if err != nil {
		return err
	}

	usr, err := api.usrSvc.GetByID(ctx.Param("teacherID"))
	if err != nil || !usr.IsTeacher() || usr.SchoolID != id {
		return errHttpNotFound
	}

	if err := api.usrSvc.RemoveTeacher(claims.Subject, usr.ID); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "removing teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}
