package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"affiliate-backend/internal/affiliate"
	"affiliate-backend/internal/api"
)

var App *affiliate.App

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
}

func ApiInit() { // Run Api Server
	App = affiliate.Init()
	router := gin.Default()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	// This makes it so each ip can only make 100 requests per second
	store := ratelimit.RedisStore(&ratelimit.RedisOptions{
		RedisClient: redis.NewClient(&redis.Options{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       1,
		}),
		Rate:  time.Second,
		Limit: 100,
	})
	mw := ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://0.0.0.0:3000",
			"http://localhost:3000",
		},
		AllowHeaders:  []string{"Origin", "Access-Control-Allow-Origin", "Access-Control-Allow-Headers", "Content-Type, X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		AllowMethods:  []string{"GET, POST, PATCH, OPTIONS, PUT, DELETE"},
		MaxAge:        24 * time.Hour,
	}))
	router.Use(func(c *gin.Context) {
		c.Set("app", App)
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws", mw, wsHandler)
	members := router.Group("/members")
	{
		members.POST("", mw, api.RegisterMember)
		members.GET("/:id", mw, api.GetMember)
		members.GET("/:id/stats", mw, api.GetMemberStats)
		members.GET("/:id/referrals", mw, api.GetReferrals)
		members.GET("/:id/notifications", mw, api.GetNotificationLogs)
		members.PATCH("/:id/active", mw, api.SetMemberActive)
		members.GET("/link/:link", mw, api.GetMemberByLink)
	}
	router.POST("/purchases", mw, api.CreatePurchase)
	router.POST("/notifications", mw, api.SendNotification)
	products := router.Group("/products")
	{
		products.POST("", mw, api.CreateProduct)
		products.GET("", mw, api.GetProducts)
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Println("[ Affiliate Backend is up and listening to :" + port + " ]")
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to run Affiliate Backend on :"+port+": ", err)
	}
}

// wsHandler streams a member's notification feed. The client identifies
// itself with its affiliate link and receives every payload the dispatcher
// publishes to notification_ch@{id}.
func wsHandler(c *gin.Context) {
	link := c.DefaultQuery("link", "")
	if link == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "link missing"})
		return
	}
	app := c.MustGet("app").(*affiliate.App)
	member, err := app.Svc.MemberByLink(link)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown link"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to set websocket upgrade: %+v", err)
		return
	}
	defer conn.Close()

	pingPeriod := 3 * time.Second
	timeout := 9 * time.Second
	var mu sync.Mutex // Mutex to synchronize writes to the WebSocket connection
	lastPong := time.Now()
	conn.SetPongHandler(func(string) error {
		mu.Lock()
		lastPong = time.Now()
		mu.Unlock()
		return nil
	})

	pubsub := app.Rdb.Subscribe(c, fmt.Sprintf("notification_ch@%d", member.Id))
	defer pubsub.Close()
	ch := pubsub.Channel()

	done := make(chan struct{})
	go func() {
		// Drains the connection so pong frames get handled and a client
		// close is noticed.
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			mu.Lock()
			err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload))
			mu.Unlock()
			if err != nil {
				fmt.Println("Socket: Failed to send data:", err)
				return
			}
		case <-ticker.C:
			mu.Lock()
			stale := time.Since(lastPong) > timeout
			mu.Unlock()
			if stale {
				return
			}
			mu.Lock()
			err := conn.WriteMessage(websocket.PingMessage, nil)
			mu.Unlock()
			if err != nil {
				fmt.Println("Socket: Failed to send ping:", err)
				return
			}
		case <-done:
			return
		}
	}
}
