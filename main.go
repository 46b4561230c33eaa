package main

import (
	"ferim-server/models"
	"ferim-server/routes"
	"ferim-server/storage"
	"ferim-server/utils"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, x-auth-token")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	// The API carries its token in the x-auth-token header rather than a
	// standard bearer scheme.
	accessTokenVerifier.Extractors = append(accessTokenVerifier.Extractors, func(ctx iris.Context) string {
		return ctx.GetHeader("x-auth-token")
	})
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", routes.Register)
		auth.Post("/login", routes.Login)
		auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
	}

	users := app.Party("/api/users")
	{
		users.Post("/", routes.CreateUser)
	}

	properties := app.Party("/api/properties")
	{
		properties.Get("/", routes.GetProperties)
		properties.Get("/{id}", routes.GetProperty)
		properties.Post("/", accessTokenVerifierMiddleware, routes.CreateProperty)
		properties.Delete("/{id}/images", accessTokenVerifierMiddleware, routes.DeletePropertyImage)
	}

	maintenance := app.Party("/api/maintenance", accessTokenVerifierMiddleware)
	{
		maintenance.Post("/", utils.RoleMiddleware(models.RoleTenant, models.RoleOwner), routes.CreateMaintenanceRequest)
		maintenance.Get("/user", routes.GetUserMaintenanceRequests)
		maintenance.Get("/technician", utils.RoleMiddleware(models.RoleTechnician), routes.GetTechnicianMaintenanceRequests)
		maintenance.Put("/{id}", routes.UpdateMaintenanceStatus)
	}

	reservations := app.Party("/api/reservations", accessTokenVerifierMiddleware)
	{
		reservations.Post("/", utils.RoleMiddleware(models.RoleTenant), routes.CreateReservation)
		reservations.Get("/tenant", utils.RoleMiddleware(models.RoleTenant), routes.GetTenantReservations)
		reservations.Get("/owner", utils.RoleMiddleware(models.RoleOwner), routes.GetOwnerReservations)
		reservations.Put("/{id}", utils.RoleMiddleware(models.RoleOwner), routes.UpdateReservationStatus)
	}

	// Static client: login/register forms and the dashboard.
	app.HandleDir("/", iris.Dir("./public"))

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
