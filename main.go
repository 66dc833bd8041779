package main

import (
	"log"
	"os" // <-- IMPORTANT

	"github.com/Santhanasabari/KSTAX/client"
	"github.com/Santhanasabari/KSTAX/config"
	"github.com/Santhanasabari/KSTAX/handler"
	"github.com/Santhanasabari/KSTAX/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// VERY IMPORTANT: Default to the Tesseract v5 tessdata path, but leave
	// an operator-provided TESSDATA_PREFIX alone so it reaches the config.
	if os.Getenv("TESSDATA_PREFIX") == "" {
		os.Setenv("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/")
	}
	log.Println("TESSDATA_PREFIX set to:", os.Getenv("TESSDATA_PREFIX"))

	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize OCR clients
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	var paddleClient *client.PaddleClient
	if cfg.PaddleAPIURL != "" {
		paddleClient = client.NewPaddleClient(cfg.PaddleAPIURL)
	}

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Initialize service layer
	form16Service := service.NewForm16Service(pdfProcessor, tesseractClient, paddleClient, cfg.Form16Path)
	reportService := service.NewReportService()
	excelService := service.NewExcelService()

	// Initialize handler layer
	form16Handler := handler.NewForm16Handler(form16Service, reportService, excelService)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Form 16 Extraction",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		form16 := api.Group("/form16")
		{
			form16.GET("/extract", form16Handler.ExtractConfigured)
			form16.POST("/extract", form16Handler.ExtractUpload)
			form16.GET("/report", form16Handler.DownloadReport)
			form16.GET("/workbook", form16Handler.DownloadWorkbook)
			form16.GET("/raw", form16Handler.DownloadRaw)
		}
	}

	// Start server
	log.Printf("Starting Form 16 Extraction Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
