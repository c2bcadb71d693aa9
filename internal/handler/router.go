package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"resq/internal/app/model"
	"resq/internal/pkg/auth/jwt"
	"resq/internal/pkg/limiter"
	"resq/internal/pkg/logx"
	"resq/internal/pkg/resp"
)

const (
	AuthRate  = 0.2
	AuthBurst = 5
	WSRate    = 0.5
	WSBurst   = 10
	SOSRate   = 0.1
	SOSBurst  = 3
)

var (
	admin     = string(model.RoleAdmin)
	volunteer = string(model.RoleVolunteer)
	citizen   = string(model.RoleCitizen)
)

// Router sets up the HTTP routing table. ctx bounds the background sweeping of the rate
// limiters and should be cancelled on shutdown.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(AuthRate), AuthBurst)
	wsLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(WSRate), WSBurst)
	sosLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(SOSRate), SOSBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if err := deps.Store.Ping(r.Context()); err != nil {
			logx.Error(err, "Health check: database unreachable")
			status = "degraded"
		}

		resp.RespondSuccess(w, r, map[string]any{
			"status":  status,
			"service": "RESQ Server",
			"online":  len(deps.Hub.Registry().OnlineUsers()),
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.With(authLimiter.Middleware).Post("/register", HandleRegister(deps))
			auth.With(authLimiter.Middleware).Post("/login", HandleLogin(deps))
			auth.Post("/refresh", HandleRefresh(deps))
		})

		api.Group(func(p chi.Router) {
			p.Use(jwt.RequireAuth)

			p.Route("/users", func(u chi.Router) {
				u.Get("/me", HandleGetMe(deps))
				u.Put("/me", HandleUpdateMe(deps))
				u.Put("/me/location", HandleUpdateLocation(deps))
				u.Put("/me/volunteer-status", HandleUpdateVolunteerStatus(deps))
				u.Get("/volunteers/online", HandleListOnlineVolunteers(deps))

				u.Group(func(a chi.Router) {
					a.Use(jwt.RequireRole(admin))
					a.Get("/", HandleListUsers(deps))
					a.Get("/{id}", HandleGetUser(deps))
					a.Put("/{id}", HandleAdminUpdateUser(deps))
					a.Delete("/{id}", HandleDeleteUser(deps))
				})
			})

			p.Route("/sos", func(s chi.Router) {
				s.With(jwt.RequireRole(citizen), sosLimiter.Middleware).Post("/", HandleCreateSOS(deps))
				s.Get("/", HandleListSOS(deps))
				s.Get("/{id}", HandleGetSOS(deps))
				s.With(jwt.RequireRole(admin)).Put("/{id}/status", HandleUpdateSOSStatus(deps))
				s.With(jwt.RequireRole(admin)).Delete("/{id}", HandleDeleteSOS(deps))
			})

			p.Route("/incidents", func(i chi.Router) {
				i.With(jwt.RequireRole(citizen)).Post("/", HandleCreateIncident(deps))
				i.Get("/", HandleListIncidents(deps))
				i.With(jwt.RequireRole(citizen)).Post("/image/presign", HandlePresignImageUpload(deps))
				i.Get("/image", HandleImageDownload(deps))
				i.Get("/{id}", HandleGetIncident(deps))
				i.With(jwt.RequireRole(admin)).Put("/{id}", HandleUpdateIncident(deps))
				i.With(jwt.RequireRole(admin)).Delete("/{id}", HandleDeleteIncident(deps))
			})

			p.Route("/tasks", func(t chi.Router) {
				t.With(jwt.RequireRole(admin)).Post("/", HandleCreateTask(deps))
				t.Get("/", HandleListTasks(deps))
				t.With(jwt.RequireRole(volunteer)).Get("/nearby", HandleNearbyWork(deps))
				t.Get("/{id}", HandleGetTask(deps))
				t.Put("/{id}", HandleUpdateTask(deps))
				t.With(jwt.RequireRole(admin)).Delete("/{id}", HandleDeleteTask(deps))
			})

			p.Route("/messages", func(m chi.Router) {
				m.Post("/", HandleSendMessage(deps))
				m.Get("/", HandleListMessages(deps))
				m.Get("/broadcasts", HandleListBroadcasts(deps))
				m.Get("/unread/count", HandleUnreadCount(deps))
				m.Put("/{id}/read", HandleMarkMessageRead(deps))
			})

			p.Route("/comments", func(c chi.Router) {
				c.Post("/", HandleCreateComment(deps))
				c.Get("/task/{id}", HandleListTaskComments(deps))
				c.Delete("/{id}", HandleDeleteComment(deps))
			})

			p.Get("/dashboard/stats", HandleDashboardStats(deps))

			p.Route("/presence", func(pr chi.Router) {
				pr.Get("/users/{id}", HandleUserPresence(deps))
				pr.With(jwt.RequireRole(admin)).Get("/online", HandleOnlineUsers(deps))
				pr.With(jwt.RequireRole(admin)).Get("/stats", HandlePresenceStats(deps))
			})
		})
	})

	r.Get("/ws", HandleWebSocket(deps, wsUpgrader, wsLimiter))

	return r
}
