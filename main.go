package main

import (
	"os"

	"dekites-server/middlewares"
	"dekites-server/payments"
	"dekites-server/routes"
	"dekites-server/storage"

	"github.com/kataras/iris/v12"
)

func main() {
	storage.InitializeDB()
	storage.InitializeRedis()
	routes.Payments = payments.NewClientFromEnv()

	app := iris.Default()

	// Payment provider callbacks carry their own signature, no session.
	app.Post("/api/webhooks/polar", routes.PolarWebhook)

	user := app.Party("/api/users")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLogin)
		user.Post("/refresh", routes.RefreshToken)
		user.Patch("/push-token", middlewares.Authenticated, routes.RegisterPushToken)
	}

	rooms := app.Party("/api/rooms")
	{
		rooms.Get("/", routes.GetRooms)
		rooms.Get("/{id:uint}", routes.GetRoomByID)
		rooms.Post("/", middlewares.Authenticated, middlewares.AdminOnly, routes.CreateRoom)
		rooms.Delete("/{id:uint}", middlewares.Authenticated, middlewares.AdminOnly, routes.DeleteRoom)
	}

	carts := app.Party("/api/carts", middlewares.Authenticated)
	{
		carts.Post("/", routes.AddToCart)
		carts.Get("/", routes.GetUserCart)
		carts.Delete("/{id:uint}", routes.RemoveFromCart)
	}

	bookings := app.Party("/api/bookings", middlewares.Authenticated)
	{
		bookings.Post("/", routes.CreateBooking)
		bookings.Get("/", routes.GetUserBookings)
		bookings.Post("/{id:uint}/cancel", routes.CancelBooking)
		bookings.Post("/{id:uint}/confirm", routes.ForceConfirmBooking)
	}

	admin := app.Party("/api/admin", middlewares.Authenticated, middlewares.AdminOnly)
	{
		admin.Get("/dashboard", routes.GetDashboard)
		admin.Patch("/bookings/{id:uint}/status", routes.UpdateBookingStatus)
		admin.Get("/bookings/export", routes.ExportBookingsCSV)
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":4000"
	}
	app.Listen(addr)
}
