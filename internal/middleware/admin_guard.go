package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

//contextのisAdminフラグで管理者ルートを守る。

func AdminGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, failJSON("Authentication required"))
			}

			isAdmin, _ := c.Get(CtxIsAdminKey).(bool)

			//USERは拒否、ADMINだけ許可
			if !isAdmin || role != "ADMIN" {
				return c.JSON(http.StatusForbidden, failJSON("Access denied. Admin privileges required."))
			}

			return next(c)
		}
	}
}
