package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/haven/internal/middleware"
	"github.com/hitoshi/haven/internal/model"
	"github.com/hitoshi/haven/internal/repository"
	"github.com/hitoshi/haven/internal/security"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	UserResolver      middleware.UserResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	HTTPRecorder      middleware.HTTPRecorder // nilの場合はメトリクス記録をスキップ

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// セキュリティ
	Sanitizer security.ContentSanitizerService
	LinkGuard security.LinkGuardService

	// リソース
	UserService         UserServiceInterface
	DrugTestRepo        repository.DrugTestRepository
	MeetingRepo         repository.MeetingRepository
	RentPaymentRepo     repository.RentPaymentRepository
	DevotionRepo        repository.DevotionRepository
	ReadingMaterialRepo repository.ReadingMaterialRepository
	MessageRepo         repository.MessageRepository
	CalendarEventRepo   repository.CalendarEventRepository
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Identity → Logging
//
// Identityミドルウェアは全ルートに適用されるが、リクエストの拒否は行わない。
// 保護ルートはRequireAuthenticated / RequireRoleで明示的にガードする。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.HTTPRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPRecorder))
	}
	r.Use(middleware.NewIdentityMiddleware(deps.UserResolver))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	userHandler := NewUserHandler(deps.UserService)
	drugTestHandler := NewDrugTestHandler(deps.DrugTestRepo)
	meetingHandler := NewMeetingHandler(deps.MeetingRepo)
	rentPaymentHandler := NewRentPaymentHandler(deps.RentPaymentRepo)
	devotionHandler := NewDevotionHandler(deps.DevotionRepo, deps.Sanitizer)
	materialHandler := NewReadingMaterialHandler(deps.ReadingMaterialRepo, deps.LinkGuard)
	messageHandler := NewMessageHandler(deps.MessageRepo, deps.Sanitizer)
	eventHandler := NewCalendarEventHandler(deps.CalendarEventRepo)

	// ヘルスチェック（認証不要）
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// --- 認証エンドポイント ---
		r.Route("/auth", func(r chi.Router) {
			// セッション確立は未認証で呼ばれるため、IP単位の専用レート制限を適用
			r.With(deps.RateLimiter.LoginMiddleware()).Post("/session", authHandler.CreateSession)
			r.Get("/me", authHandler.Me)
			r.Post("/logout", authHandler.Logout)
		})

		// --- 認証が必要なリソースルート ---
		r.Group(func(r chi.Router) {
			r.Use(deps.RateLimiter.GeneralMiddleware())
			r.Use(middleware.RequireAuthenticated())

			elevated := middleware.RequireRole(model.RoleAdmin, model.RoleMentor)
			adminOnly := middleware.RequireRole(model.RoleAdmin)

			// ユーザー管理
			r.Route("/users", func(r chi.Router) {
				r.With(elevated).Get("/", userHandler.ListUsers)
				r.With(adminOnly).Patch("/{id}/role", userHandler.UpdateUserRole)
			})

			// 薬物検査記録
			r.Route("/drug-tests", func(r chi.Router) {
				r.With(elevated).Post("/", drugTestHandler.CreateDrugTest)
				r.Get("/", drugTestHandler.ListDrugTests)
			})

			// ミーティング出席記録
			r.Route("/meetings", func(r chi.Router) {
				r.With(elevated).Post("/", meetingHandler.CreateMeeting)
				r.Get("/", meetingHandler.ListMeetings)
			})

			// 家賃支払い記録
			r.Route("/rent-payments", func(r chi.Router) {
				r.Post("/", rentPaymentHandler.CreateRentPayment)
				r.Get("/", rentPaymentHandler.ListRentPayments)
				r.With(elevated).Patch("/{id}/confirm", rentPaymentHandler.ConfirmRentPayment)
			})

			// デボーション
			r.Route("/devotions", func(r chi.Router) {
				r.With(adminOnly).Post("/", devotionHandler.CreateDevotion)
				r.Get("/", devotionHandler.ListDevotions)
			})

			// 読書資料
			r.Route("/reading-materials", func(r chi.Router) {
				r.With(elevated).Post("/", materialHandler.CreateReadingMaterial)
				r.Get("/", materialHandler.ListReadingMaterials)
			})

			// メッセージ
			r.Route("/messages", func(r chi.Router) {
				r.Post("/", messageHandler.CreateMessage)
				r.Get("/", messageHandler.ListMessages)
				r.Patch("/{id}/read", messageHandler.MarkMessageRead)
			})

			// カレンダーイベント
			r.Route("/calendar-events", func(r chi.Router) {
				r.With(elevated).Post("/", eventHandler.CreateCalendarEvent)
				r.Get("/", eventHandler.ListCalendarEvents)
			})
		})
	})

	return r
}
