package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"travelmind/cmd/fx/config_fx"
	"travelmind/cmd/fx/controllers_fx"
	"travelmind/cmd/fx/db_fx"
	"travelmind/cmd/fx/expense_fx"
	"travelmind/cmd/fx/llm_fx"
	"travelmind/cmd/fx/maps_fx"
	"travelmind/cmd/fx/memcache_fx"
	"travelmind/cmd/fx/profile_fx"
	"travelmind/cmd/fx/trip_fx"
	"travelmind/cmd/fx/voice_fx"
	"travelmind/internal/api/controllers"
	"travelmind/internal/config"
	"travelmind/internal/observability"
	"travelmind/pkg/middleware"
	"travelmind/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		llm_fx.Module,
		trip_fx.Module,
		expense_fx.Module,
		profile_fx.Module,
		voice_fx.Module,
		maps_fx.Module,
		controllers_fx.Module,

		fx.Provide(provideTokenVerifier, ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func provideTokenVerifier(cfg config.Config) (*utils.TokenVerifier, error) {
	return utils.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience, cfg.Auth.Issuer)
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, logger *slog.Logger, _ *observability.Telemetry) {
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("Starting HTTP server", slog.String("addr", srv.Addr), slog.String("env", cfg.App.Env))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type routerParams struct {
	fx.In

	Config    config.Config
	Logger    *slog.Logger
	Verifier  *utils.TokenVerifier
	Health    *controllers.HealthController
	Trips     *controllers.TripController
	Itinerary *controllers.ItineraryController
	Expenses  *controllers.ExpenseController
	Profile   *controllers.ProfileController
	Voice     *controllers.VoiceController
	Maps      *controllers.MapController
}

func ProvideRouter(p routerParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Logger))
	r.Use(middleware.CORSMiddleware(p.Config.App.CORSOrigins))
	r.Use(middleware.RequestTimeout(p.Config.App.RequestTimeout))

	RegisterRoutes(r, p)

	return r
}

func RegisterRoutes(r *gin.Engine, p routerParams) {
	r.GET("/healthz", p.Health.Health)
	r.GET("/metrics", gin.WrapH(observability.MetricsHandler()))

	api := r.Group("/")
	api.Use(middleware.JWTAuthMiddleware(p.Verifier))
	llmLimit := middleware.NewRateLimiter(p.Config.LLM.RatePerMinute).Middleware()

	trips := api.Group("/trips")
	trips.POST("", p.Trips.CreateTrip)
	trips.GET("", p.Trips.ListTrips)
	trips.POST("/generate", llmLimit, p.Itinerary.GenerateTrip)
	trips.GET("/:id", p.Trips.GetTrip)
	trips.PUT("/:id", p.Trips.UpdateTrip)
	trips.DELETE("/:id", p.Trips.DeleteTrip)
	trips.PATCH("/:id/status", p.Trips.ChangeTripStatus)
	trips.GET("/:id/similar", p.Trips.SimilarTrips)

	trips.POST("/:id/itinerary/generate", llmLimit, p.Itinerary.GenerateForTrip)
	trips.PUT("/:id/itinerary", p.Itinerary.ReplaceItinerary)
	trips.POST("/:id/itinerary/days/:day/activities", p.Itinerary.AddActivity)
	trips.PATCH("/:id/itinerary/days/:day/activities/:index", p.Itinerary.UpdateActivity)
	trips.DELETE("/:id/itinerary/days/:day/activities/:index", p.Itinerary.RemoveActivity)
	trips.POST("/:id/itinerary/move", p.Itinerary.MoveActivity)

	trips.POST("/:id/expenses", p.Expenses.CreateExpense)
	trips.GET("/:id/expenses", p.Expenses.ListExpenses)
	trips.GET("/:id/expenses/summary", p.Expenses.ExpenseSummary)

	expenses := api.Group("/expenses")
	expenses.PUT("/:id", p.Expenses.UpdateExpense)
	expenses.DELETE("/:id", p.Expenses.DeleteExpense)

	profile := api.Group("/profile")
	profile.GET("", p.Profile.GetProfile)
	profile.PUT("", p.Profile.UpsertProfile)
	profile.PATCH("/preferences", p.Profile.UpdatePreferences)
	profile.POST("/avatar", p.Profile.UploadAvatar)

	voice := api.Group("/voice")
	voice.POST("/transcribe", p.Voice.Transcribe)
	voice.POST("/parse", llmLimit, p.Voice.ParseText)
	voice.POST("/plan", llmLimit, p.Voice.Plan)
	voice.GET("/stream", p.Voice.Stream)

	maps := api.Group("/maps")
	maps.GET("/geocode", p.Maps.Geocode)
	maps.GET("/pois", p.Maps.SearchPOI)
	maps.GET("/pois/around", p.Maps.SearchAround)
	maps.GET("/route", p.Maps.Route)
}
