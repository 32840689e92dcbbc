package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/prathomik/sheba/core"
	"github.com/prathomik/sheba/core/certificate"
)

const defaultQRSize = 256

type certificateApi struct {
	svc        *certificate.Service
	remarksSvc core.RemarksService
	validate   *validator.Validate
}

func registerCertificateAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *certificate.Service,
	remarksSvc core.RemarksService,
	validate *validator.Validate,
) {
	api := certificateApi{svc: svc, remarksSvc: remarksSvc, validate: validate}

	// un-authed: anyone scanning a printed QR code lands here.
	g.GET("/verify", api.verify)

	cg := g.Group("/certificates", jwt, schoolStaffMiddleware())
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.POST("/remarks", api.generateRemarks)

	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.GET("/qr", api.qrImage)
}

// Handlers

// verify resolves a scanned token. It always answers 200 with the structured
// result; bad tokens are an expected outcome, not an HTTP failure.
func (api *certificateApi) verify(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Verify(ctx.QueryParam("token")))
}

func (api *certificateApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data certificate.NewCertificate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCertificate")
	}
	schoolID, err := scopedSchoolID(claims, data.SchoolID)
	if err != nil {
		return err
	}
	data.SchoolID = schoolID
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cert, err := api.svc.Create(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating certificate")
	}
	return ctx.JSON(http.StatusCreated, cert)
}

func (api *certificateApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	schoolID, err := scopedSchoolID(claims, ctx.QueryParam("school_id"))
	if err != nil {
		return err
	}

	certs, err := api.svc.BySchool(schoolID)
	if err != nil {
		return errors.Wrap(err, "querying certificates")
	}
	if certs == nil {
		certs = []certificate.Certificate{}
	}
	return ctx.JSON(http.StatusOK, certs)
}

func (api *certificateApi) retrieve(ctx echo.Context) error {
	cert, err := api.getScopedCertificate(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cert)
}

// qrImage renders the certificate's verification token as a PNG for the
// printable certificate.
func (api *certificateApi) qrImage(ctx echo.Context) error {
	cert, err := api.getScopedCertificate(ctx)
	if err != nil {
		return err
	}

	token, err := api.svc.Token(cert)
	if err != nil {
		return errors.Wrap(err, "building verification token")
	}

	size := defaultQRSize
	if s, err := strconv.Atoi(ctx.QueryParam("size")); err == nil && s > 0 {
		size = s
	}
	png, err := certificate.QRImage(token, size)
	if err != nil {
		return errors.Wrap(err, "encoding QR image")
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}

func (api *certificateApi) generateRemarks(ctx echo.Context) error {
	var data RemarksRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RemarksRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	remarks := api.remarksSvc.StudentRemarks(ctx.Request().Context(), core.StudentRemarksInput{
		Name:       data.Name,
		GPA:        data.GPA,
		Attendance: data.Attendance,
		Traits:     data.Traits,
	})
	return ctx.JSON(http.StatusOK, RemarksResponse{Remarks: remarks})
}

func (api *certificateApi) getScopedCertificate(ctx echo.Context) (certificate.Certificate, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return certificate.Certificate{}, errors.Wrap(err, "getting context claims")
	}

	cert, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == certificate.ErrNotFound {
			return certificate.Certificate{}, errHttpNotFound
		}
		return certificate.Certificate{}, errors.Wrap(err, "finding certificate by ID")
	}
	if _, err := scopedSchoolID(claims, cert.SchoolID); err != nil {
		return certificate.Certificate{}, errHttpNotFound
	}
	return cert, nil
}

type (
	RemarksRequest struct {
		Name       string  `json:"name" validate:"required"`
		GPA        float64 `json:"gpa"`
		Attendance float64 `json:"attendance"`
		Traits     string  `json:"traits"`
	}

	RemarksResponse struct {
		Remarks string `json:"remarks"`
	}
)
