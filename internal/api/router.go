// Package api wires the HTTP surface: route groups, auth middleware and
// operational endpoints.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authapi "github.com/ecoheroes/recycle-rewards/internal/api/auth"
	"github.com/ecoheroes/recycle-rewards/internal/api/battlepass"
	gameapi "github.com/ecoheroes/recycle-rewards/internal/api/game"
	"github.com/ecoheroes/recycle-rewards/internal/api/middleware"
	recyclingapi "github.com/ecoheroes/recycle-rewards/internal/api/recycling"
	"github.com/ecoheroes/recycle-rewards/internal/config"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// Dependencies collects everything the router needs. Health checks are
// plain closures so the router does not depend on the store types.
type Dependencies struct {
	Config            *config.Config
	Log               *logger.Logger
	AuthHandler       *authapi.Handler
	GameHandler       *gameapi.Handler
	BattlePassHandler *battlepass.Handler
	RecyclingHandler  *recyclingapi.Handler
	Sessions          middleware.SessionResolver
	Users             middleware.UserLoader
	DBHealth          func() error
	CacheHealth       func() error
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "ok", "cache": "ok"}
		if deps.DBHealth != nil {
			if err := deps.DBHealth(); err != nil {
				status = http.StatusServiceUnavailable
				checks["database"] = err.Error()
			}
		}
		if deps.CacheHealth != nil {
			if err := deps.CacheHealth(); err != nil {
				status = http.StatusServiceUnavailable
				checks["cache"] = err.Error()
			}
		}
		c.JSON(status, checks)
	})

	if deps.Config.Metrics.Enabled {
		router.GET(deps.Config.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	requireAuth := middleware.RequireAuth(deps.Sessions, deps.Users, deps.Log)

	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", deps.AuthHandler.Register)
	authGroup.POST("/login", deps.AuthHandler.Login)
	authGroup.POST("/logout", requireAuth, deps.AuthHandler.Logout)

	game := api.Group("/game")
	game.GET("/leaderboard", deps.GameHandler.GetLeaderboard)
	game.GET("/can-play", requireAuth, deps.GameHandler.CanPlay)
	game.POST("/submit-score", requireAuth, deps.GameHandler.SubmitScore)
	game.POST("/save-score", requireAuth, deps.GameHandler.SaveGameScore)

	bp := api.Group("/battlepass")
	bp.GET("/tiers", deps.BattlePassHandler.GetTiers)
	bp.GET("/shop", deps.BattlePassHandler.GetShopItems)
	bp.GET("/rewards", requireAuth, deps.BattlePassHandler.GetUserRewards)
	bp.POST("/claim", requireAuth, deps.BattlePassHandler.ClaimReward)
	bp.POST("/purchase", requireAuth, deps.BattlePassHandler.PurchaseShopItem)
	bp.POST("/equip", requireAuth, deps.BattlePassHandler.EquipReward)

	recycling := api.Group("/recycling")
	recycling.GET("/materials", deps.RecyclingHandler.GetMaterials)
	recycling.GET("/events", requireAuth, deps.RecyclingHandler.GetEvents)
	recycling.POST("/log", requireAuth, deps.RecyclingHandler.LogRecycling)

	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin())
	admin.GET("/events/flagged", deps.RecyclingHandler.GetFlaggedEvents)
	admin.POST("/events/:id/flag", deps.RecyclingHandler.FlagEvent)
	admin.POST("/events/:id/reject", deps.RecyclingHandler.RejectEvent)

	return router
}
