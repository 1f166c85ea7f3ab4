package router

import (
	"net/http"
	"time"

	"feedback-go/internal/config"
	"feedback-go/internal/entry"
	"feedback-go/internal/handlers"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Surveys  handlers.SurveyStore
	Accounts handlers.AccountStore
	Issuer   *entry.Issuer
	Notifier handlers.InvitationSender
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Try again later."})
}

func newLimiter(rate time.Duration, limit uint) gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  rate,
		Limit: limit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})
}

func Setup(log *zap.Logger, conf *config.Store, deps Deps) *gin.Engine {
	cfg := conf.Get()

	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		IsDevelopment:         !cfg.Server.SecureCookies,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	store := cookie.NewStore([]byte(cfg.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("feedback_session", store))
	router.Use(UserLoaderMiddleware(log, deps.Accounts))

	// Handlers and routes
	authHandler := handlers.NewAuthHandler(log, deps.Accounts)
	surveyHandler := handlers.NewSurveyHandler(log, deps.Surveys, deps.Issuer, conf)
	entryHandler := handlers.NewEntryHandler(log, deps.Surveys, deps.Issuer)
	statsHandler := handlers.NewStatsHandler(log, deps.Surveys, conf)
	orgHandler := handlers.NewOrganizationHandler(log, deps.Accounts, deps.Notifier, conf)

	authLimiter := newLimiter(time.Minute, 5)
	entryLimiter := newLimiter(time.Minute, 30)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/login", authLimiter, authHandler.Login)
	router.POST("/register", authLimiter, authHandler.Register)
	router.POST("/invitations/:token/accept", authLimiter, orgHandler.Accept)

	entryRoutes := router.Group("/entry/:token")
	{
		entryRoutes.GET("", entryHandler.Get)
		entryRoutes.POST("/answers", entryLimiter, entryHandler.Submit)
	}

	authorized := router.Group("/")
	authorized.Use(AuthRequired(), CSRFProtection())
	{
		authorized.POST("/logout", authHandler.Logout)

		api := authorized.Group("/api")
		api.GET("/csrf", CSRFToken)
		api.GET("/me", authHandler.Me)
		api.GET("/dashboard", statsHandler.Dashboard)

		surveyRoutes := api.Group("/surveys")
		{
			surveyRoutes.POST("", surveyHandler.Create)
			surveyRoutes.GET("", surveyHandler.List)
			surveyRoutes.GET("/:id", surveyHandler.Get)
			surveyRoutes.PATCH("/:id", surveyHandler.SetActive)
			surveyRoutes.POST("/:id/questions", surveyHandler.AddQuestion)
			surveyRoutes.DELETE("/:id/questions/:qid", surveyHandler.DeleteQuestion)
			surveyRoutes.GET("/:id/entry-link", surveyHandler.EntryLink)
			surveyRoutes.GET("/:id/score", statsHandler.Score)
			surveyRoutes.GET("/:id/charts", statsHandler.Charts)
			surveyRoutes.GET("/:id/table", statsHandler.Table)
			surveyRoutes.GET("/:id/export.csv", statsHandler.ExportCSV)
		}

		orgRoutes := api.Group("/organizations")
		{
			orgRoutes.GET("/members", orgHandler.Members)
			orgRoutes.POST("/invitations", orgHandler.Invite)
		}
	}

	return router
}
