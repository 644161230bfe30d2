package server

import (
	"BotAdmin/config"
	"BotAdmin/handlers"
	"BotAdmin/kafka"
	custommiddleware "BotAdmin/middleware"
	"BotAdmin/models"
	botredis "BotAdmin/redis"
	"BotAdmin/services"
	"BotAdmin/storage"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Echo                    *echo.Echo
	DB                      *gorm.DB
	Config                  *config.Config
	Redis                   *botredis.RedisClient
	Producer                *kafka.EscalationProducer
	AuthHandler             *handlers.AuthHandler
	ClientHandler           *handlers.ClientHandler
	ResponseHandler         *handlers.ResponseHandler
	AgentHandler            *handlers.AgentHandler
	SupportHandler          *handlers.SupportHandler
	ChatHandler             *handlers.ChatHandler
	SupportWebSocketHandler *handlers.SupportWebSocketHandler
}

func NewServer() *Server {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := models.AutoMigrateAll(db); err != nil {
		log.Fatal("Failed to auto-migrate database:", err)
	}
	store := storage.New(db)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	allowOrigins := cfg.Server.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:5173"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.PATCH},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentLength},
		MaxAge:           86400,
	}))

	var redisClient *botredis.RedisClient
	var presence *botredis.Presence
	if cfg.Redis.Enabled {
		redisClient, err = botredis.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis:", err)
		}
		presence = botredis.NewPresence(redisClient.Client)
	}

	producer, err := kafka.NewEscalationProducer(&cfg.Kafka)
	if err != nil {
		log.Fatal("Failed to create kafka producer:", err)
	}
	// An interface holding a typed nil is not nil; only wire a live producer.
	var events services.EventPublisher
	if producer != nil {
		events = producer
	}

	authService := services.NewAuthService(store, &cfg.Auth)
	matcherService := services.NewMatcherService(store)
	escalationService := services.NewEscalationService(store, matcherService, events)
	sessionService := services.NewSessionService(store, cfg.Server.WidgetBaseURL)
	supportService := services.NewSupportService(store)
	seedService := services.NewSeedService(store)

	hub := handlers.NewSupportHub(presence)

	s := &Server{
		Echo:                    e,
		DB:                      db,
		Config:                  &cfg,
		Redis:                   redisClient,
		Producer:                producer,
		AuthHandler:             handlers.NewAuthHandler(authService),
		ClientHandler:           handlers.NewClientHandler(store, seedService),
		ResponseHandler:         handlers.NewResponseHandler(store),
		AgentHandler:            handlers.NewAgentHandler(supportService),
		SupportHandler:          handlers.NewSupportHandler(supportService),
		ChatHandler:             handlers.NewChatHandler(sessionService, escalationService),
		SupportWebSocketHandler: handlers.NewSupportWebSocketHandler(hub, supportService),
	}

	authMiddleware := custommiddleware.AuthMiddleware(authService)
	s.SetupRoutes(authMiddleware, redisClient)
	return s
}

func (s *Server) Start(addr string) {
	log.Fatal(s.Echo.Start(addr))
}

func (s *Server) Close() {
	if s.Producer != nil {
		s.Producer.Close()
	}
	if s.Redis != nil {
		s.Redis.Close()
	}
}
