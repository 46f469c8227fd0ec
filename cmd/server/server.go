package server

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/avoronov/devlink/internal/database"
	"github.com/avoronov/devlink/internal/github"
	"github.com/avoronov/devlink/internal/handlers"
	"github.com/avoronov/devlink/pkg/auth"
)

const tokenTTL = 10 * time.Hour

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	AuthH      *handlers.AuthHandler
	ProfileH   *handlers.ProfileHandler
	PostH      *handlers.PostHandler
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(os.Getenv("JWT_SECRET"), tokenTTL)

	ghClient := github.NewClient(
		os.Getenv("GITHUB_CLIENT_ID"),
		os.Getenv("GITHUB_CLIENT_SECRET"),
	)

	authH := handlers.NewAuthHandler(dbConn, jwtMgr, rdb)
	profileH := handlers.NewProfileHandler(dbConn, ghClient)
	postH := handlers.NewPostHandler(dbConn)

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, authH, profileH, postH)

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		AuthH:      authH,
		ProfileH:   profileH,
		PostH:      postH,
	}
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
