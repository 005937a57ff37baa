package httpapi

import (
	"context"

	"feedline/internal/adapters/httpapi/middleware"
	imagePort "feedline/internal/ports/image"
	postPort "feedline/internal/ports/post"
	userPort "feedline/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthUseCase: اینترفیسِ لازم برای کنترلر/روتر (Inbound Port)
type AuthUseCase interface {
	RegisterUser(ctx context.Context, email, name, password string) (*userPort.UserDTO, error)
	LoginUser(ctx context.Context, email, password string) (*userPort.LoginResponse, error)
	VerifyToken(token string) (string, error)
}

type FeedUseCase interface {
	ListPosts(ctx context.Context, page, pageSize int) (*postPort.PostPageDTO, error)
	CreatePost(ctx context.Context, userID, title, content, imagePath string) (*postPort.CreatedPostDTO, error)
	GetPost(ctx context.Context, postID string) (*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, userID, postID, title, content, imagePath string) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, userID, postID string) error
	GetStatus(ctx context.Context, userID string) (string, error)
	UpdateStatus(ctx context.Context, userID, status string) (string, error)
}

const formOverheadBytes = 1 << 20

type Options struct {
	CORSOrigin     string
	ImageDir       string // خالی: تصاویر از این سرور سرو نمی‌شوند
	MaxUploadBytes int64
	GraphQL        gin.HandlerFunc
}

// فقط روتینگ: UseCase از بیرون تزریق می‌شود
func SetupRoutes(
	authUC AuthUseCase,
	feedUC FeedUseCase,
	storage imagePort.ImageStorage,
	opts Options,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.CORS(opts.CORSOrigin))
	if opts.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = opts.MaxUploadBytes
	}

	// سقف کل بدنه: فایل به‌علاوه فیلدهای فرم
	uploadLimit := middleware.LimitBody(0)
	if opts.MaxUploadBytes > 0 {
		uploadLimit = middleware.LimitBody(opts.MaxUploadBytes + formOverheadBytes)
	}

	ac := NewAuthController(authUC, logger)
	fc := NewFeedController(feedUC, storage, opts.MaxUploadBytes, logger)

	if opts.ImageDir != "" {
		r.Static("/images", opts.ImageDir)
	}

	// مسیرهای ثبت‌نام و ورود بدون JWT Middleware
	auth := r.Group("/auth")
	auth.PUT("/signup", ac.Signup)
	auth.POST("/login", ac.Login)

	feed := r.Group("/feed", middleware.JWTAuthMiddleware(authUC, logger))
	feed.GET("/posts", fc.ListPosts)
	feed.POST("/post", uploadLimit, fc.CreatePost)
	feed.GET("/post/:postId", fc.GetPost)
	feed.PUT("/post/:postId", uploadLimit, fc.UpdatePost)
	feed.DELETE("/post/:postId", fc.DeletePost)
	feed.GET("/status", fc.GetStatus)
	feed.PATCH("/status", fc.UpdateStatus)

	if opts.GraphQL != nil {
		gql := r.Group("/graphql", middleware.OptionalAuth(authUC))
		gql.POST("", opts.GraphQL)
		gql.GET("", opts.GraphQL)
	}
	return r
}
