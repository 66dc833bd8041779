package client

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// PaddleClient talks to a PaddleOCR sidecar over its REST API. It is an
// optional second OCR engine, tried before the page-by-page Tesseract
// fallback when a certificate carries no embedded text.
type PaddleClient struct {
	apiURL string
}

func NewPaddleClient(apiURL string) *PaddleClient {
	log.Printf("PaddleOCR client initialized for %s", apiURL)
	return &PaddleClient{
		apiURL: apiURL,
	}
}

// ExtractPDFText sends the whole certificate to PaddleOCR and returns the
// recognized text, lines joined with newlines.
func (p *PaddleClient) ExtractPDFText(pdfBytes []byte) (string, error) {
	// Encode PDF bytes to base64
	encodedPDF := base64.StdEncoding.EncodeToString(pdfBytes)

	payload := map[string]interface{}{
		"images": []string{encodedPDF},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := http.Post(p.apiURL, "application/json", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to call PaddleOCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("PaddleOCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Results [][]struct {
			Text       string  `json:"text"`
			Confidence float64 `json:"confidence"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode PaddleOCR response: %w", err)
	}

	var textBuilder strings.Builder
	if len(result.Results) > 0 {
		for _, line := range result.Results[0] {
			textBuilder.WriteString(line.Text)
			textBuilder.WriteString("\n")
		}
	}

	extractedText := textBuilder.String()
	if extractedText == "" {
		return "", fmt.Errorf("PaddleOCR extracted no text from PDF")
	}

	log.Printf("PaddleOCR extracted %d characters", len(extractedText))
	return extractedText, nil
}
