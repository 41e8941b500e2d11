// Package api contains all endpoints available
package api

import (
	"time"

	"sigantara/file-api/internal"
	"sigantara/file-api/pkg/middleware"
	"sigantara/file-api/pkg/security"
	"sigantara/file-api/queue"
	"sigantara/file-api/storage"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Store  storage.Store
	Queue  queue.Enqueuer
	Argon  *security.ArgonHash
	Router *gin.Engine
}

func NewRouter(d *internal.Deps) (*API, error) {
	a := &API{
		DB:    d.DB,
		Store: d.Store,
		Queue: d.Queue,
		Argon: d.Argon,
	}

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v, ok := c.Get("userID"); ok {
					fields = append(fields, zap.Any("user_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	jwt := middleware.NewJWTMiddleware(d.DB)
	jsonBody := middleware.BodySizeLimiter(1 << 20)

	// HEAD /heartbeat 		-> Used to check if the server is alive
	router.HEAD("/heartbeat", a.Heartbeat)

	auth := router.Group("/auth", jsonBody)
	{
		// POST /auth/login 		-> Logs in a user and returns a JWT token
		auth.POST("/login", a.UserLogin)
	}

	files := router.Group("/files", jwt, jsonBody)
	{
		// POST /files/presign		-> Mints a direct-upload URL for a temp path
		files.POST("/presign", a.FilePresign)

		// POST /files/finalize		-> Turns a finished upload into a queued job
		files.POST("/finalize", a.FileFinalize)

		// GET /files 			-> Returns the caller's visible files
		files.GET("", a.FileFetchBulk)

		// GET /files/:id 		-> Returns a single file record
		files.GET("/:id", a.FileFetch)

		// DELETE /files/:id		-> Deletes a file record and its objects
		files.DELETE("/:id", a.FileDelete)
	}

	users := router.Group("/users", jwt, jsonBody)
	{
		// GET /users			-> Lists all users (admin)
		users.GET("", a.UserFetchBulk)

		// POST /users 			-> Creates a new user (admin)
		users.POST("", a.UserCreate)

		// PUT /users/:id 		-> Updates a user (admin)
		users.PUT("/:id", a.UserUpdate)

		// DELETE /users/:id 		-> Deletes a user (admin)
		users.DELETE("/:id", a.UserDelete)
	}

	teams := router.Group("/teams", jwt, jsonBody)
	{
		// GET /teams			-> Lists all teams
		teams.GET("", cacheFor(30), a.TeamFetchBulk)

		// POST /teams 			-> Creates a new team (admin)
		teams.POST("", a.TeamCreate)

		// PUT /teams/:id 		-> Renames a team (admin)
		teams.PUT("/:id", a.TeamUpdate)

		// DELETE /teams/:id 		-> Deletes an empty team (admin)
		teams.DELETE("/:id", a.TeamDelete)
	}

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
