package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"courtyard/internal/auth"
	"courtyard/internal/booking"
	"courtyard/internal/config"
	"courtyard/internal/court"
	"courtyard/internal/member"
	"courtyard/internal/membership"
	"courtyard/internal/notify"
	"courtyard/internal/payment"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, publisher *notify.Publisher) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	courtRepo := court.NewRepository(db)
	courtHandler := court.NewHandler(court.NewService(courtRepo))

	bookingRepo := booking.NewRepository(db)
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, courtRepo, publisher))

	membershipRepo := membership.NewRepository(db)
	membershipHandler := membership.NewHandler(membership.NewService(membershipRepo, publisher))

	paymentHandler := payment.NewHandler(payment.NewRepository(db))

	memberHandler := member.NewHandler(member.NewService(member.NewRepository(db), cfg.JWTSecret))

	public := router.Group("/auth")
	{
		public.POST("/register", memberHandler.Register)
		public.POST("/login", memberHandler.Login)
		public.POST("/refresh", memberHandler.Refresh)
	}

	authMiddleware := auth.Middleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/members/me", memberHandler.Me)

		protected.GET("/sports", courtHandler.ListSports)
		protected.GET("/courts", courtHandler.ListCourts)
		protected.GET("/courts/:courtID", courtHandler.GetCourt)
		protected.GET("/courts/:courtID/availability", bookingHandler.Availability)

		protected.POST("/bookings", bookingHandler.Create)
		protected.GET("/bookings", bookingHandler.ListMine)
		protected.GET("/bookings/:bookingID", bookingHandler.Get)
		protected.DELETE("/bookings/:bookingID", bookingHandler.Cancel)
		protected.POST("/bookings/quote", bookingHandler.Quote)
		protected.POST("/bookings/check", bookingHandler.Check)
		protected.POST("/bookings/:bookingID/payments", paymentHandler.AddBookingPayment)
		protected.GET("/bookings/:bookingID/payments", paymentHandler.ListForBooking)

		protected.GET("/packages", membershipHandler.ListPackages)
		protected.POST("/subscriptions", membershipHandler.Subscribe)
		protected.GET("/subscriptions", membershipHandler.ListMine)
		protected.GET("/subscriptions/:subscriptionID", membershipHandler.Get)
		protected.GET("/subscriptions/:subscriptionID/team", membershipHandler.Team)
		protected.POST("/subscriptions/:subscriptionID/team", membershipHandler.AddTeamMember)
		protected.DELETE("/subscriptions/:subscriptionID/team/:memberID", membershipHandler.RemoveTeamMember)
		protected.POST("/subscriptions/:subscriptionID/leaves", membershipHandler.RequestLeave)
		protected.GET("/subscriptions/:subscriptionID/leaves", membershipHandler.ListLeaves)
		protected.POST("/subscriptions/:subscriptionID/payments", paymentHandler.AddSubscriptionPayment)
		protected.GET("/subscriptions/:subscriptionID/payments", paymentHandler.ListForSubscription)

		protected.GET("/holidays", membershipHandler.ListHolidays)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/sports", courtHandler.CreateSport)
		admin.POST("/courts", courtHandler.CreateCourt)
		admin.PUT("/courts/:courtID/status", courtHandler.UpdateStatus)
		admin.DELETE("/courts/:courtID", courtHandler.DeleteCourt)
		admin.GET("/courts/:courtID/bookings", bookingHandler.ListByCourtDate)

		admin.PUT("/bookings/:bookingID/reschedule", bookingHandler.Reschedule)
		admin.PUT("/bookings/:bookingID/extend", bookingHandler.Extend)

		admin.POST("/packages", membershipHandler.CreatePackage)
		admin.PUT("/leaves/:leaveID", membershipHandler.DecideLeave)
		admin.POST("/subscriptions/:subscriptionID/renew", membershipHandler.Renew)
		admin.DELETE("/subscriptions/:subscriptionID", membershipHandler.Terminate)
		admin.POST("/subscriptions/sweep", membershipHandler.Sweep)
		admin.POST("/holidays", membershipHandler.DeclareHoliday)

		admin.GET("/stats/bookings/daily", bookingHandler.StatsByDay)
		admin.GET("/stats/bookings/by-court", bookingHandler.StatsByCourt)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
