package server

import (
	"time"

	"BotAdmin/limiter"
	custommiddleware "BotAdmin/middleware"
	botredis "BotAdmin/redis"

	"github.com/labstack/echo/v4"
)

func (s *Server) SetupRoutes(authMiddleware echo.MiddlewareFunc, redisClient *botredis.RedisClient) {
	e := s.Echo
	api := e.Group("/api")

	// Auth routes (unprotected)
	api.POST("/login", s.AuthHandler.Login)
	api.POST("/refresh", s.AuthHandler.RefreshToken)

	// Widget routes (unprotected: the widget is anonymous, its session token
	// is the only credential)
	chat := api.Group("/chat")
	{
		chat.POST("/sessions", s.ChatHandler.CreateSession)
		chat.GET("/sessions/:token", s.ChatHandler.GetSession)
		chat.GET("/messages/:sessionId", s.ChatHandler.GetMessages)
	}

	// Rate limits only apply when redis is on.
	var messageLimit, qrLimit []echo.MiddlewareFunc
	if redisClient != nil {
		messageLimiter := limiter.NewManager(redisClient.Client, &limiter.FixedWindowStrategy{})
		messageLimit = append(messageLimit, custommiddleware.NewRateLimitMiddleware(messageLimiter, custommiddleware.RateLimitConfig{
			Limit:  30,
			Window: time.Minute,
		}))
		qrLimiter := limiter.NewManager(redisClient.Client, &limiter.TokenBucketStrategy{})
		qrLimit = append(qrLimit, custommiddleware.NewRateLimitMiddleware(qrLimiter, custommiddleware.RateLimitConfig{
			Limit:  10,
			Window: time.Minute,
		}))
	}
	chat.POST("/messages", s.ChatHandler.CreateMessage, messageLimit...)

	// Realtime support channel
	e.GET("/ws", s.SupportWebSocketHandler.HandleWebSocket)

	// Admin console routes
	protected := api.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/user", s.AuthHandler.GetCurrentUser)
		protected.GET("/stats", s.ClientHandler.GetDashboardStats)
		protected.POST("/init-db", s.ClientHandler.InitDB)
		protected.POST("/qr/generate", s.ChatHandler.GenerateQR, qrLimit...)

		clients := protected.Group("/clients")
		{
			clients.GET("", s.ClientHandler.GetClients)
			clients.POST("", s.ClientHandler.CreateClient)
			clients.GET("/:id", s.ClientHandler.GetClient)
			clients.PUT("/:id", s.ClientHandler.UpdateClient)
			clients.DELETE("/:id", s.ClientHandler.DeleteClient)
			clients.GET("/:id/sessions", s.ChatHandler.GetClientSessions)
		}

		responses := protected.Group("/responses")
		{
			responses.GET("/:clientId", s.ResponseHandler.GetResponses)
			responses.POST("", s.ResponseHandler.CreateResponse)
			responses.PUT("/:id", s.ResponseHandler.UpdateResponse)
			responses.DELETE("/:id", s.ResponseHandler.DeleteResponse)
		}

		agents := protected.Group("/agents")
		{
			agents.GET("", s.AgentHandler.GetAgents)
			agents.PUT("/:id/availability", s.AgentHandler.UpdateAvailability)
		}

		support := protected.Group("/support")
		{
			support.GET("/chats", s.SupportHandler.GetChats)
			support.POST("/chats", s.SupportHandler.CreateChat)
			support.GET("/chats/:id", s.SupportHandler.GetChat)
			support.PUT("/chats/:id", s.SupportHandler.UpdateChat)
			support.GET("/chats/:id/participants", s.SupportWebSocketHandler.GetParticipants)
			support.GET("/messages/:chatId", s.SupportHandler.GetMessages)
			support.POST("/messages", s.SupportHandler.CreateMessage)
		}
	}
}
