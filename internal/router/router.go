package router

import (
	"qaboard/internal/handlers"
	"qaboard/internal/logger"
	"qaboard/internal/middleware"
	"qaboard/internal/services"
	"qaboard/internal/store"
	"qaboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Deps 路由依赖，由 main 或测试组装后传入
type Deps struct {
	Store        *store.Store
	Auth         *services.AuthService
	Cache        *utils.Cache
	CookieSecure bool
}

// New builds the engine with recovery and request logging and registers
// every route.
func New(deps Deps, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(log))
	RegisterRoutes(r, deps)
	return r
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	handlers.UseJSONFieldNames()

	// Handlers
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.CookieSecure)
	userHandler := handlers.NewUserHandler(deps.Store.Users)
	questionHandler := handlers.NewQuestionHandler(deps.Store, deps.Cache)
	answerHandler := handlers.NewAnswerHandler(deps.Store)
	tagHandler := handlers.NewTagHandler(deps.Store, deps.Cache)
	healthHandler := handlers.NewHealthHandler(deps.Store.DB())

	r.Use(middleware.LoadUser(deps.Auth))
	requireAuth := middleware.AuthRequired(deps.Auth)

	r.GET("/healthz", healthHandler.Healthz) // 健康检查

	// 用户 (User Routes)
	user := r.Group("/user")
	{
		user.POST("/signup", authHandler.Signup)               // 注册
		user.POST("/login", authHandler.Login)                 // 登录
		user.POST("/logout", authHandler.Logout)               // 退出登录
		user.GET("/profile", requireAuth, userHandler.Profile) // 当前用户主页
	}

	// 问题 (Question Routes)
	question := r.Group("/question")
	{
		question.GET("/getQuestion", questionHandler.GetQuestions)              // 问题列表，支持 order/search
		question.GET("/getQuestionById/:id", questionHandler.GetQuestionByID)   // 问题详情，浏览量 +1
		question.POST("/addQuestion", requireAuth, questionHandler.AddQuestion) // 提问
		question.POST("/:id/comment", requireAuth, questionHandler.AddComment)  // 评论问题
	}

	// 回答 (Answer Routes)
	answer := r.Group("/answer")
	answer.Use(requireAuth)
	{
		answer.POST("/addAnswer", answerHandler.AddAnswer)    // 回答问题
		answer.POST("/:id/upvote", answerHandler.Upvote)      // 赞同/取消赞同
		answer.POST("/:id/downvote", answerHandler.Downvote)  // 反对/取消反对
		answer.POST("/:id/comment", answerHandler.AddComment) // 评论回答
	}

	// 标签 (Tag Routes)
	tag := r.Group("/tag")
	{
		tag.GET("/getTagsWithQuestionNumber", tagHandler.GetTagsWithQuestionNumber) // 标签及问题数
		tag.GET("/getTags", tagHandler.GetTags)                                     // 所有标签
	}
}
