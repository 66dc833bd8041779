package config

import "os"

type Config struct {
	ServerPort        string
	Form16Path        string
	TesseractDataPath string
	PaddleAPIURL      string
	MaxFileSize       int64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	form16Path := os.Getenv("FORM16_PATH")
	if form16Path == "" {
		form16Path = "./documents/form16.pdf"
	}

	tesseractDataPath := os.Getenv("TESSDATA_PREFIX")
	if tesseractDataPath == "" {
		tesseractDataPath = "/usr/share/tesseract-ocr/4.00/tessdata"
	}

	return &Config{
		ServerPort:        serverPort,
		Form16Path:        form16Path,
		TesseractDataPath: tesseractDataPath,
		PaddleAPIURL:      os.Getenv("PADDLEOCR_API_URL"), // empty disables PaddleOCR
		MaxFileSize:       32 * 1024 * 1024,               // 32 MB
	}
}
