package routers

import (
	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/middleware"
	"github.com/edushare/edushare/pkg/hashid"
	"github.com/edushare/edushare/routers/controllers"
	"github.com/edushare/edushare/service/explorer"
	"github.com/edushare/edushare/service/user"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

const (
	loginRateLimitTPS   = 1
	loginRateLimitBurst = 10
)

// InitRouter 初始化路由
func InitRouter(dep dependency.Dep) *gin.Engine {
	l := dep.Logger()
	l.Info("Initializing routers...")

	r := gin.New()
	r.ContextWithFallback = true
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/download/"})))
	r.Use(middleware.InitializeHandling(dep))
	r.Use(middleware.Logging())

	if cors := middleware.Cors(dep.ConfigProvider().Cors()); cors != nil {
		r.Use(cors)
	}

	r.Use(middleware.Session(dep))
	r.Use(middleware.CurrentUser())
	r.Use(middleware.CacheControl())

	r.GET("ping", controllers.Ping)

	/*
		认证
	*/
	auth := r.Group("")
	auth.Use(middleware.LoginRateLimit(loginRateLimitTPS, loginRateLimitBurst))
	{
		auth.GET("register", controllers.UserRegisterPage)
		auth.POST("register",
			controllers.FromForm[user.UserRegisterService](user.RegisterParameterCtx{}),
			controllers.UserRegister,
		)
		auth.GET("login", controllers.UserLoginPage)
		auth.POST("login",
			controllers.FromForm[user.UserLoginService](user.LoginParameterCtx{}),
			controllers.UserLogin,
		)
	}

	/*
		需要登录
	*/
	authed := r.Group("")
	authed.Use(middleware.LoginRequired())
	{
		authed.GET("logout", controllers.UserLogout)
		authed.GET("me", controllers.UserMe)

		// 目录
		authed.GET("", controllers.ListRoot)
		authed.GET("search",
			controllers.FromQuery[explorer.SearchService](explorer.SearchParameterCtx{}),
			controllers.Search,
		)

		folder := authed.Group("folder")
		{
			folder.POST("create",
				controllers.FromForm[explorer.CreateFolderService](explorer.CreateFolderParameterCtx{}),
				controllers.CreateFolder,
			)
			folder.GET(":id", middleware.HashID(hashid.FolderID), controllers.ListFolder)
			folder.POST(":id/delete", middleware.HashID(hashid.FolderID), controllers.DeleteFolder)
		}

		// 资料
		authed.POST("upload",
			controllers.FromForm[explorer.UploadService](explorer.UploadParameterCtx{}),
			controllers.Upload,
		)
		authed.GET("download/:id", middleware.HashID(hashid.ResourceID), controllers.Download)

		resource := authed.Group("resource/:id", middleware.HashID(hashid.ResourceID))
		{
			resource.GET("", controllers.ResourceDetail)
			resource.POST("delete", controllers.DeleteResource)
			resource.POST("review",
				controllers.FromForm[explorer.SubmitReviewService](explorer.SubmitReviewParameterCtx{}),
				controllers.SubmitReview,
			)
		}
	}

	return r
}
