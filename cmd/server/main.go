package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/codebuildervaibhav/lecture-insights/internal/analysis"
	"github.com/codebuildervaibhav/lecture-insights/internal/cleanup"
	"github.com/codebuildervaibhav/lecture-insights/internal/handlers"
	"github.com/codebuildervaibhav/lecture-insights/internal/media"
	"github.com/codebuildervaibhav/lecture-insights/internal/queue"
	"github.com/codebuildervaibhav/lecture-insights/internal/storage"
	"github.com/codebuildervaibhav/lecture-insights/internal/transcription"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Whisper struct {
		Model    string `yaml:"model"`
		Language string `yaml:"language"`
	} `yaml:"whisper"`

	Analysis struct {
		Model         string   `yaml:"model"`
		KeywordCount  int      `yaml:"keyword_count"`
		MaxCategories int      `yaml:"max_categories"`
		Categories    []string `yaml:"categories"`
	} `yaml:"analysis"`

	Workers struct {
		Count int `yaml:"count"`
	} `yaml:"workers"`

	Storage struct {
		TempDir   string `yaml:"temp_dir"`
		OutputDir string `yaml:"output_dir"`
		Database  string `yaml:"database"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeHours     int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`

	GoogleDrive struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		FolderName      string `yaml:"folder_name"`
	} `yaml:"google_drive"`

	Limits struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb"`
	} `yaml:"limits"`
}

// defaultCategories is the built-in topic vocabulary used when the config
// does not supply one
var defaultCategories = []string{
	"Education", "Economics & Finance", "Space & Physics", "AI & Information",
	"Environment", "Food & Agriculture", "Robotics & Technology",
	"Life Science & Medicine", "Culture & Arts", "History",
	"International Relations", "Urban Planning & Architecture",
	"Population & Social Issues", "Mathematics", "Energy & Resources",
	"Disaster Prevention", "Psychology & Cognition", "Politics & Law",
	"Language & Philosophy",
}

func main() {
	// Load .env before reading the API key (ignored when absent)
	godotenv.Load()

	// Load configuration
	config, err := loadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is not set (put it in the environment or a .env file)")
	}

	// Ensure directories exist
	if err := cleanup.EnsureTempDirExists(config.Storage.TempDir); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}
	if err := os.MkdirAll(config.Storage.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Custom logger setup
	logBuffer := &LogBuffer{
		lines: make([]string, 0, 1000),
	}
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	log.SetOutput(multiWriter)

	// Initialize components
	log.Println("Initializing components...")

	// Audio extractor (ffmpeg)
	extractor := media.NewExtractor(config.Storage.TempDir)

	// Whisper transcriber behind the transcript cache
	whisper, err := transcription.NewWhisperTranscriber(
		config.Whisper.Model,
		config.Whisper.Language,
		config.Storage.TempDir,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Whisper: %v", err)
	}
	transcriber := transcription.NewCache(whisper)

	// Gemini analysis pipeline
	gemini, err := analysis.NewGeminiClient(apiKey, config.Analysis.Model)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	pipeline := analysis.NewPipeline(gemini)

	// Local storage
	localStorage := storage.NewLocalStorage(config.Storage.OutputDir)

	// Google Drive client (optional - may fail if credentials not set up)
	var driveClient *storage.DriveClient
	if _, err := os.Stat(config.GoogleDrive.CredentialsFile); err == nil {
		driveClient, err = storage.NewDriveClient(
			config.GoogleDrive.CredentialsFile,
			config.GoogleDrive.TokenFile,
			config.GoogleDrive.FolderName,
		)
		if err != nil {
			log.Printf("WARNING: Google Drive not available: %v", err)
			log.Println("Reports will only be saved locally")
			driveClient = nil
		} else {
			log.Println("Google Drive integration enabled")
		}
	} else {
		log.Println("Google Drive credentials not found - saving locally only")
	}

	// Database
	db, err := storage.NewMetadataDB(config.Storage.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Worker pool
	workerPool := queue.NewWorkerPool(
		config.Workers.Count,
		extractor,
		transcriber,
		pipeline,
		localStorage,
		driveClient,
		db,
		queue.AnalysisOptions{
			KeywordCount:  config.Analysis.KeywordCount,
			Categories:    config.Analysis.Categories,
			MaxCategories: config.Analysis.MaxCategories,
		},
	)
	workerPool.Start()

	// Cleanup scheduler
	cleanupScheduler := cleanup.NewScheduler(
		config.Storage.TempDir,
		time.Duration(config.Cleanup.IntervalMinutes)*time.Minute,
		time.Duration(config.Cleanup.MaxAgeHours)*time.Hour,
	)
	cleanupScheduler.Start()
	defer cleanupScheduler.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: config.Limits.MaxFileSizeMB * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(workerPool, config.Storage.TempDir, config.Limits.MaxFileSizeMB)
	resultsHandler := handlers.NewResultsHandler(workerPool)
	progressHandler := handlers.NewProgressHandler(workerPool)

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html")
		return c.SendString(indexHTML)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	app.Post("/upload", uploadHandler.Handle)
	app.Get("/jobs/:id", resultsHandler.Handle)

	// WebSocket route for progress updates
	app.Get("/ws/progress/:id", websocket.New(progressHandler.Handle))

	// List processed lectures
	app.Get("/lectures", func(c *fiber.Ctx) error {
		limit := 50 // Default limit
		lectures, err := db.ListLectures(limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(lectures)
	})

	// Get full transcript text
	app.Get("/lectures/:id/text", func(c *fiber.Ctx) error {
		jobID := c.Params("id")

		// Get metadata to find file path
		lecture, err := db.GetLecture(jobID)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Lecture not found"})
		}

		localPath, ok := lecture["local_path"].(string)
		if !ok || localPath == "" {
			return c.Status(404).JSON(fiber.Map{"error": "Transcript file path not found"})
		}

		// Read file content
		content, err := os.ReadFile(localPath)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to read transcript file"})
		}

		return c.SendString(string(content))
	})

	// Get server logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logBuffer.GetLogs(),
		})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   GET  /                 - Upload page")
	log.Println("   POST /upload           - Upload lecture video/audio")
	log.Println("   GET  /jobs/:id         - Job status and analysis results")
	log.Println("   GET  /ws/progress/:id  - WebSocket progress updates")
	log.Println("   GET  /lectures         - List processed lectures")
	log.Println("   GET  /lectures/:id/text - Full transcript text")
	log.Println("   GET  /logs             - View server logs")
	log.Println("   GET  /health           - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// LogBuffer captures logs in memory
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Append new line
	lb.lines = append(lb.lines, string(p))

	// Keep last 1000 lines
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}

	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Return copy of slice
	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}

// loadConfig loads configuration from YAML file and applies defaults
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	if config.Analysis.KeywordCount <= 0 {
		config.Analysis.KeywordCount = 10
	}
	if config.Analysis.MaxCategories < 0 {
		config.Analysis.MaxCategories = 0
	}
	if len(config.Analysis.Categories) == 0 {
		config.Analysis.Categories = defaultCategories
	}
	if config.Workers.Count <= 0 {
		config.Workers.Count = 2
	}
	if config.Cleanup.IntervalMinutes <= 0 {
		config.Cleanup.IntervalMinutes = 30
	}
	if config.Cleanup.MaxAgeHours <= 0 {
		config.Cleanup.MaxAgeHours = 24
	}
	if config.Limits.MaxFileSizeMB <= 0 {
		config.Limits.MaxFileSizeMB = 500
	}

	return &config, nil
}
