package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func superAdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsSuperAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// schoolStaffMiddleware passes school admins and super admins through;
// handlers still scope school admins to their own school.
func schoolStaffMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsSuperAdmin || claims.IsSchoolAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// scopedSchoolID resolves the school a request may operate on. A super admin
// may address any school; everyone else is pinned to the school on their
// claims, and an empty requested ID falls back to it.
func scopedSchoolID(claims Claims, requested string) (string, error) {
	if claims.IsSuperAdmin {
		if requested == "" {
			return "", errHttpNotFound
		}
		return requested, nil
	}
	if claims.SchoolID == "" {
		return "", errHttpForbidden
	}
	if requested != "" && requested != claims.SchoolID {
		return "", errHttpForbidden
	}
	return claims.SchoolID, nil
}
