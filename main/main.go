package main

import (
	"log"
	"os"
	"strconv"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"flatchat/auth"
	"flatchat/chat"
	"flatchat/directory"
	"flatchat/social"
	"flatchat/store"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
}

// Initialize the HTTP server
func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment")
	}

	// Env Vars
	port := os.Getenv("PORT")
	if port == "" {
		port = ":3000"
	}
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	historyLimit := chat.DefaultHistoryLimit
	if v := os.Getenv("HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatal("Invalid HISTORY_LIMIT:", v)
		}
		historyLimit = n
	}

	st := store.New(dataDir)
	dir := directory.New(st)
	chatServer := chat.NewServer(dir, st, historyLimit)

	authHandlers := &auth.Handlers{Dir: dir}
	socialHandlers := &social.Handlers{
		Dir:        dir,
		Hub:        chatServer.Hub,
		Dispatcher: chatServer.Dispatcher,
	}

	// Setup Gin
	r := gin.Default()

	// Rate Limit
	rateStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: 100, // each ip can make 100 requests per second
	})
	mw := ratelimit.RateLimiter(rateStore, &ratelimit.Options{
		ErrorHandler: rateLimitErrorHandler,
		KeyFunc:      keyFunc,
	})
	r.Use(mw)
	r.Use(cors.Default())

	// API
	r.POST("/api/register", authHandlers.HandleRegister)
	r.POST("/api/login", authHandlers.HandleLogin)
	r.GET("/api/users/:id", socialHandlers.HandleGetProfile)
	r.POST("/api/friends", socialHandlers.HandleAddFriend)
	r.POST("/api/groups", socialHandlers.HandleCreateGroup)
	r.POST("/api/groups/:id/members", socialHandlers.HandleAddMember)
	r.GET("/api/users/:id/groups", socialHandlers.HandleGetUserGroups)
	r.GET("/api/history/:room", socialHandlers.HandleGetHistory)

	// Event channel
	r.GET("/ws", chatServer.HandleSocket)

	// Start the server
	if err := r.Run(port); err != nil {
		log.Fatal(err)
	}
}
