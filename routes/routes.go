package routes

import (
	"context"
	"time"

	"farmhith/config"
	adminController "farmhith/controllers/admin"
	appController "farmhith/controllers/app"
	authController "farmhith/controllers/auth"
	bookingController "farmhith/controllers/booking"
	contactController "farmhith/controllers/contact"
	"farmhith/controllers/content"
	profileController "farmhith/controllers/profile"
	reportController "farmhith/controllers/report"
	wizardController "farmhith/controllers/wizard"
	"farmhith/httpServices/sms"
	"farmhith/logger"
	"farmhith/middleware"
	"farmhith/repository"
	"farmhith/services/advisor"
	authService "farmhith/services/auth"
	bookingService "farmhith/services/booking"
	contactService "farmhith/services/contact"
	otpService "farmhith/services/otp"
	reportService "farmhith/services/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"
)

// SessionCookie names the browser session that holds wizard and navigation state.
const SessionCookie = "farmhith_session"

// Services is every service the HTTP layer talks to.
type Services struct {
	Bookings *bookingService.Service
	Reports  *reportService.Service
	Contacts *contactService.Service
	OTP      *otpService.Service
	Auth     *authService.Service
}

// NewServices wires repositories, the SMS gateway and the advisor into services.
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	bookingRepo := repository.NewGormBookingRepository(db)

	adv, err := advisor.NewGeminiAdvisor(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("Failed to create recommendation advisor, drafting disabled", err)
		adv = advisor.Disabled{}
	}

	smsService := sms.NewSMSService(cfg.SMSBaseURL, cfg.SMSAPIKey, cfg.SMSSenderID)
	if !smsService.Enabled() {
		logger.Warning("SMS gateway not configured, OTP codes will be written to the log")
	}
	otpSvc := otpService.NewOTPService(repository.NewGormOTPRepository(db), smsService)

	return &Services{
		Bookings: bookingService.NewService(bookingRepo),
		Reports:  reportService.NewService(repository.NewGormReportRepository(db), bookingRepo, adv),
		Contacts: contactService.NewService(repository.NewGormContactRepository(db)),
		OTP:      otpSvc,
		Auth: authService.NewService(
			repository.NewGormUserRepository(db),
			repository.NewGormProfileRepository(db),
			repository.NewGormSessionRepository(db),
			otpSvc,
			authService.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		),
	}
}

// NewSessionStore keeps browser sessions in memory.
func NewSessionStore(cfg *config.Config) *session.Store {
	return session.New(session.Config{
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:" + SessionCookie,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.IsProduction(),
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

func SetupRoutes(app *fiber.App, cfg *config.Config, svc *Services, store *session.Store, asyncLogger *logger.AsyncLogger) {
	secure := cfg.IsProduction()
	limited := cfg.RateLimitEnabled

	authCtrl := authController.NewAuthController(svc.Auth, secure)
	bookingCtrl := bookingController.NewBookingController(svc.Bookings)
	reportCtrl := reportController.NewReportController(svc.Reports)
	contactCtrl := contactController.NewContactController(svc.Contacts)
	profileCtrl := profileController.NewProfileController(svc.Auth, svc.Bookings)
	wizardCtrl := wizardController.NewWizardController(store, svc.Bookings, SessionCookie)
	appCtrl := appController.NewAppController(store, svc.Auth, secure)
	adminCtrl := adminController.NewAdminController(svc.Bookings, svc.Reports, svc.Contacts, svc.OTP)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", middleware.RequestLog(asyncLogger), middleware.Authenticate(svc.Auth))

	/*=============================================================================
	| Content Routes
	===============================================================================*/
	contentGroup := api.Group("/content")
	contentGroup.Get("/packages", content.GetPackages)
	contentGroup.Get("/packages/:id", content.GetPackage)
	contentGroup.Get("/states", content.GetStates)
	contentGroup.Get("/crops", content.GetCrops)
	contentGroup.Get("/testimonials", content.GetTestimonials)
	contentGroup.Get("/partners", content.GetPartners)
	contentGroup.Get("/blog", content.GetBlogPosts)
	contentGroup.Get("/stats", content.GetStats)
	contentGroup.Get("/pages", content.GetPages)

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api.Post("/bookings", middleware.RateLimit(middleware.PublicTier, limited), bookingCtrl.Store)
	api.Post("/bookings/track", middleware.RateLimit(middleware.ReportTier, limited), bookingCtrl.Track)
	api.Get("/reports/:trackingId", middleware.RateLimit(middleware.ReportTier, limited), reportCtrl.Show)
	api.Post("/contact", middleware.RateLimit(middleware.PublicTier, limited), contactCtrl.Store)

	/*=============================================================================
	| Auth Routes
	===============================================================================*/
	authGroup := api.Group("/auth")
	authGroup.Post("/otp/send", middleware.RateLimit(middleware.PublicTier, limited), authCtrl.SendOTP)
	authGroup.Post("/otp/verify", middleware.RateLimit(middleware.PublicTier, limited), authCtrl.VerifyOTP)
	authGroup.Post("/admin/login", middleware.RateLimit(middleware.PublicTier, limited), authCtrl.AdminLogin)
	authGroup.Post("/admin/refresh", middleware.RateLimit(middleware.PublicTier, limited), authCtrl.AdminRefresh)
	authGroup.Get("/admin/session", authCtrl.AdminSession)
	authGroup.Post("/refresh", middleware.RateLimit(middleware.PublicTier, limited), authCtrl.Refresh)
	authGroup.Get("/session", authCtrl.Session)
	authGroup.Post("/logout", middleware.RequireAuth(), authCtrl.Logout)

	/*=============================================================================
	| Profile Routes
	===============================================================================*/
	profileGroup := api.Group("/profile", middleware.RequireAuth(), middleware.RateLimit(middleware.UserTier, limited))
	profileGroup.Get("/", profileCtrl.Show)
	profileGroup.Put("/", profileCtrl.Update)
	profileGroup.Get("/bookings", profileCtrl.MyBookings)

	/*=============================================================================
	| Wizard and Navigation Routes
	===============================================================================*/
	wizardGroup := api.Group("/wizard", middleware.RateLimit(middleware.UserTier, limited))
	wizardGroup.Get("/", wizardCtrl.Show)
	wizardGroup.Put("/fields", wizardCtrl.SetFields)
	wizardGroup.Post("/next", wizardCtrl.Next)
	wizardGroup.Post("/back", wizardCtrl.Back)
	wizardGroup.Post("/submit", wizardCtrl.Submit)
	wizardGroup.Delete("/", wizardCtrl.Reset)

	appGroup := api.Group("/app", middleware.RateLimit(middleware.UserTier, limited))
	appGroup.Get("/state", appCtrl.State)
	appGroup.Post("/navigate", appCtrl.Navigate)
	appGroup.Post("/logout", appCtrl.Logout)

	/*=============================================================================
	| Admin Routes
	===============================================================================*/
	adminGroup := api.Group("/admin", middleware.RequireAdmin(), middleware.RateLimit(middleware.AdminTier, limited))
	adminGroup.Get("/bookings", adminCtrl.ListBookings)
	adminGroup.Get("/bookings/summary", adminCtrl.BookingsSummary)
	adminGroup.Get("/bookings/export", adminCtrl.ExportBookings)
	adminGroup.Patch("/bookings/:id/status", adminCtrl.UpdateBookingStatus)
	adminGroup.Get("/reports", adminCtrl.ListReports)
	adminGroup.Put("/reports", adminCtrl.UpsertReport)
	adminGroup.Post("/reports/:trackingId/draft", adminCtrl.DraftRecommendations)
	adminGroup.Get("/contacts", adminCtrl.ListContactMessages)
	adminGroup.Patch("/contacts/:id/status", adminCtrl.UpdateContactStatus)
	adminGroup.Get("/otp/retry-info", adminCtrl.OTPRetryInfo)
	adminGroup.Post("/otp/unblock", adminCtrl.UnblockOTP)
}
