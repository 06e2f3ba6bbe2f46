package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"trackmyfood/internal/auth"
	"trackmyfood/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/register/", userHandler.Register)
	api.POST("/login/", authHandler.Login)
	api.POST("/token/refresh/", authHandler.Refresh)
	api.POST("/logout/", authHandler.Logout)
	api.GET("/auth-status/", authHandler.AuthStatus)

	// Secured routes (require a bearer access token). Token parsing is
	// delegated to the JWT service so both middleware and issuance share
	// one claims type.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.ValidateToken(tokenString)
		},
	}))

	secured.GET("/profile/", userHandler.Profile)
	secured.PUT("/profile/update/", userHandler.UpdateProfile)
	secured.PATCH("/profile/update/", userHandler.UpdateProfile)
	secured.POST("/change-password/", userHandler.ChangePassword)
	secured.DELETE("/delete-account/", userHandler.DeleteAccount)
	secured.GET("/users/", userHandler.ListUsers)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
