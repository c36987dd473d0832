package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	apimod "github.com/razi5474/Task-manager/modules/api"
	authmod "github.com/razi5474/Task-manager/modules/auth"
	cachemod "github.com/razi5474/Task-manager/modules/cache"
	taskmod "github.com/razi5474/Task-manager/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	httpPort := getEnvInt("HTTP_PORT", 5000)
	authDBPath := getEnv("AUTH_DB_PATH", "auth.db")
	taskDBPath := getEnv("TASK_DB_PATH", "tasks.db")
	redisAddr := getEnv("REDIS_ADDR", "")
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)
	cachePrefix := getEnv("CACHE_PREFIX", "tasks:")

	log.Println("=== Task Manager ===")
	log.Printf("HTTP Port: %d", httpPort)
	log.Printf("Auth DB: %s", authDBPath)
	log.Printf("Task DB: %s", taskDBPath)
	if redisAddr != "" {
		log.Printf("Redis: %s (prefix: %s, TTL: %s)", redisAddr, cachePrefix, cacheTTL)
	} else {
		log.Println("Redis: disabled (set REDIS_ADDR to enable list caching)")
	}

	// Create modules
	authModule := authmod.NewModule(authDBPath, loadJWTConfig())
	taskModule := taskmod.NewModule(taskDBPath)
	apiModule := apimod.NewModule(httpPort)

	var cacheModule *cachemod.Module
	if redisAddr != "" {
		cacheModule = cachemod.NewModule(redisAddr, cachePrefix, cacheTTL)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	if cacheModule != nil {
		app.Register(cacheModule)
	}
	app.Register(authModule)
	app.Register(taskModule)
	app.Register(apiModule) // Depends on auth and task modules

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wire up the cache after start; the task module runs uncached without it
	if cacheModule != nil {
		taskModule.SetCache(cacheModule.GetCache())
	}

	printStartupInfo(httpPort)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", port)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/auth/register       - Register a new user")
	log.Println("  POST   /api/auth/login          - Login and get tokens")
	log.Println("  POST   /api/auth/refresh        - Refresh access token")
	log.Println("  GET    /health                  - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/auth/profile        - Get current user profile")
	log.Println("  POST   /api/tasks               - Create a task")
	log.Println("  GET    /api/tasks               - List tasks (?search= &status= &order=)")
	log.Println("  PUT    /api/tasks/:id           - Partially update a task")
	log.Println("  PUT    /api/tasks/:id/position  - Move a task in the manual order")
	log.Println("  DELETE /api/tasks/:id           - Delete a task")
	log.Println("  GET    /api/tasks/cache/stats   - Cache statistics")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// loadJWTConfig loads JWT configuration from environment variables.
func loadJWTConfig() authmod.JWTConfig {
	config := authmod.DefaultJWTConfig()

	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.SecretKey = secret
	}

	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}

	return config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
