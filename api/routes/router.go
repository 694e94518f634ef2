package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/beanpass/beanpass-backend/api/controllers"
	"github.com/beanpass/beanpass-backend/api/middleware"
	"github.com/beanpass/beanpass-backend/internal/checkins"
	"github.com/beanpass/beanpass-backend/internal/discovery"
	"github.com/beanpass/beanpass-backend/internal/follows"
	"github.com/beanpass/beanpass-backend/internal/identity"
	"github.com/beanpass/beanpass-backend/internal/notifications"
	"github.com/beanpass/beanpass-backend/internal/rankings"
	"github.com/beanpass/beanpass-backend/internal/reviews"
	"github.com/beanpass/beanpass-backend/internal/shops"
	"github.com/beanpass/beanpass-backend/internal/users"
	"github.com/beanpass/beanpass-backend/pkg/config"
	"github.com/beanpass/beanpass-backend/pkg/enums"
	"github.com/beanpass/beanpass-backend/pkg/logger"
	"github.com/beanpass/beanpass-backend/pkg/metrics"
)

// RouterParams carries everything the HTTP surface needs.
type RouterParams struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.HTTPMetrics

	DBPinger    controllers.Pinger
	CachePinger controllers.Pinger

	Identity      identity.Service
	Checkins      checkins.Service
	Reviews       reviews.Service
	Follows       follows.Service
	Rankings      rankings.Service
	Discovery     discovery.Service
	Shops         shops.Service
	Users         users.Service
	Notifications notifications.Service
}

// NewRouter assembles the API router with its middleware chain.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(p.Logger))
	r.Use(middleware.RequestID(p.Logger))
	r.Use(middleware.Logging(p.Logger))
	r.Use(middleware.CORS())
	if p.Metrics != nil {
		r.Use(middleware.Metrics(p.Metrics))
	}

	r.Get("/health/live", controllers.HealthLive(p.Config.App))
	r.Get("/health/ready", controllers.HealthReady(p.Config.App, p.Logger, p.DBPinger, p.CachePinger))
	if p.Metrics != nil {
		r.Handle("/metrics", p.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface. Identity is optional and only personalizes results.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(p.Config.JWT, p.Logger))

			r.Get("/shops", controllers.ShopSearch(p.Discovery, p.Logger))
			r.Get("/shops/{shopID}", controllers.ShopDetail(p.Shops, p.Logger))
			r.Get("/shops/{shopID}/rating", controllers.ShopRating(p.Reviews, p.Logger))
			r.Get("/shops/{shopID}/reviews", controllers.ShopReviews(p.Reviews, p.Logger))

			r.Get("/rankings/leaderboard", controllers.RankingsLeaderboard(p.Rankings, p.Logger))
			r.Get("/rankings/top", controllers.RankingsSummary(p.Rankings, p.Logger))

			r.Get("/users/{userID}", controllers.UserProfile(p.Users, p.Logger))
		})

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(p.Config.JWT, p.Logger))

			r.Get("/users/me", controllers.MeProfile(p.Users, p.Logger))
			r.Get("/users/me/stats", controllers.MeStats(p.Users, p.Logger))
			r.Get("/users/me/code", controllers.MeCheckinCode(p.Identity, p.Logger))
			r.Get("/users/me/visits", controllers.MeVisits(p.Checkins, p.Logger))
			r.Get("/users/me/top-shops", controllers.MeTopShops(p.Checkins, p.Logger))

			r.Post("/users/{userID}/follow", controllers.FollowUserToggle(p.Follows, p.Logger))
			r.Get("/users/{userID}/followers", controllers.FollowersList(p.Follows, p.Logger))
			r.Get("/users/{userID}/following", controllers.FollowingList(p.Follows, p.Logger))
			r.Get("/users/{userID}/followed-shops", controllers.FollowedShopsList(p.Follows, p.Logger))
			r.Get("/users/{userID}/counts", controllers.FollowCounts(p.Follows, p.Logger))

			r.Post("/shops/{shopID}/reviews", controllers.ReviewSubmit(p.Reviews, p.Logger))
			r.Post("/shops/{shopID}/follow", controllers.FollowShopToggle(p.Follows, p.Logger))

			r.Get("/notifications", controllers.NotificationsList(p.Notifications, p.Logger))
			r.Post("/notifications/read-all", controllers.NotificationsReadAll(p.Notifications, p.Logger))
			r.Post("/notifications/{notificationID}/read", controllers.NotificationRead(p.Notifications, p.Logger))

			// Check-ins are recorded by the scanning shop, not the visitor.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleShopOperator.String(), p.Logger))
				r.Post("/checkins", controllers.CheckinRecord(p.Checkins, p.Logger))
			})
		})
	})

	return r
}
