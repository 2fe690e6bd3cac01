package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"DevConnect/data/database/mgo/mongoutil"
	"DevConnect/global/config"
	"DevConnect/logger"
	"DevConnect/middleware"
	"DevConnect/middleware/security"
	"DevConnect/module/message"
	"DevConnect/module/notification"
	"DevConnect/module/post"
	"DevConnect/module/user"
	"DevConnect/service/chat"
	"DevConnect/service/mgo"
	"DevConnect/service/storage"
	redisstore "DevConnect/service/storage/redis"
	toolsec "DevConnect/tools/security"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := mgo.Init(ctx, &mongoutil.Config{
		Uri:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	}); err != nil {
		logger.Errorf("mongo init failed: %v", err)
		return
	}
	if err := mgo.EnsureIndexes(ctx); err != nil {
		logger.Errorf("index creation failed: %v", err)
		return
	}

	// Redis backs the session revocation list. Without it logout still clears
	// the cookie, but an already-captured token stays valid until expiry.
	var sessions storage.SessionStore
	if err := redisstore.InitRedis(redisstore.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}); err != nil {
		logger.Warnf("redis unavailable, session revocation is process-local: %v", err)
		sessions = storage.NewMemorySessionStore()
	} else {
		sessions = storage.NewRedisSessionStore(redisstore.GetRedis())
	}

	jwtOpts := toolsec.Options{Secret: cfg.JWTSecret, TTL: cfg.SessionTTL}

	gateway := chat.NewGateway(cfg.SendQueueSize)

	db := mgo.GetDB()
	userStore := user.NewMongoStore(db)
	postStore := post.NewMongoStore(db)
	messageStore := message.NewMongoStore(db)
	notifStore := notification.NewMongoStore(db)

	notifSvc := notification.NewService(notifStore, gateway)
	userSvc := user.NewService(userStore, sessions, notifSvc, jwtOpts)
	postSvc := post.NewService(postStore, userStore, notifSvc)
	messageSvc := message.NewService(messageStore, userStore, gateway)

	auth := security.Middleware(security.Options{
		JWT:      jwtOpts,
		Sessions: sessions,
		Users:    userStore,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Developer Connect API is running")
	})

	user.NewHandler(userSvc, postSvc).MountRoutes(r, auth)
	post.NewHandler(postSvc).MountRoutes(r, auth)
	message.NewHandler(messageSvc).MountRoutes(r, auth)
	notification.NewHandler(notifSvc).MountRoutes(r, auth)

	r.GET("/ws", auth, func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		gateway.Serve(c.Writer, c.Request, u.ID.Hex())
	})

	logger.Infof("listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Errorf("server stopped: %v", err)
	}
}
