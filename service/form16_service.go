package service

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/Santhanasabari/KSTAX/client"
	"github.com/Santhanasabari/KSTAX/dto"
	"github.com/Santhanasabari/KSTAX/utils"
)

// minEmbeddedTextLen is the threshold below which a PDF is treated as
// scanned: a real certificate carries far more embedded text than this.
const minEmbeddedTextLen = 200

type Form16Service struct {
	pdfProcessor    PDFProcessor
	tesseractClient *client.TesseractClient
	paddleClient    *client.PaddleClient
	form16Path      string
}

func NewForm16Service(
	pdfProcessor PDFProcessor,
	tesseractClient *client.TesseractClient,
	paddleClient *client.PaddleClient,
	form16Path string,
) *Form16Service {
	return &Form16Service{
		pdfProcessor:    pdfProcessor,
		tesseractClient: tesseractClient,
		paddleClient:    paddleClient,
		form16Path:      form16Path,
	}
}

// ExtractConfigured runs extraction against the certificate at the
// configured path.
func (s *Form16Service) ExtractConfigured() (*dto.Form16ExtractResponse, error) {
	data, err := s.LoadConfigured()
	if err != nil {
		return nil, err
	}
	return s.Extract(data, "")
}

// ExtractUpload runs extraction against an uploaded certificate.
func (s *Form16Service) ExtractUpload(fileHeader *multipart.FileHeader, password string) (*dto.Form16ExtractResponse, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrForm16NotAvailable, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrForm16NotAvailable, err)
	}

	return s.Extract(data, password)
}

// LoadConfigured reads the certificate bytes from the configured path. A
// missing or unreadable file is the one fatal condition of the pipeline.
func (s *Form16Service) LoadConfigured() ([]byte, error) {
	data, err := os.ReadFile(s.form16Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrForm16NotAvailable, err)
	}
	return data, nil
}

// Extract turns certificate bytes into the field mapping. Once document
// text has been obtained the extraction is total: missing labels degrade to
// per-field not-found values, never errors.
func (s *Form16Service) Extract(pdfData []byte, password string) (*dto.Form16ExtractResponse, error) {
	doc, err := s.documentText(pdfData, password)
	if err != nil {
		return nil, err
	}

	log.Printf("Form 16 text obtained via %s (%d chars)", doc.Source, len(doc.Text))
	fields := utils.ParseForm16Text(doc.Text)

	return &dto.Form16ExtractResponse{
		Form16Fields:  fields,
		Source:        doc.Source,
		OCRConfidence: doc.OCRConfidence,
		QRPayload:     doc.QRPayload,
		Issues:        doc.Issues,
		ProcessedAt:   time.Now().Format(time.RFC3339),
	}, nil
}

// documentText recovers one flattened text blob for the whole document.
// Embedded text is tried first; thin or absent text means a scanned
// certificate, handled by PaddleOCR (when configured) and then page-image
// OCR with Tesseract. Never returns empty text without an error.
func (s *Form16Service) documentText(pdfData []byte, password string) (dto.DocumentText, error) {
	doc := dto.DocumentText{Source: "embedded"}

	text, err := s.pdfProcessor.ExtractText(pdfData, password)
	if err != nil {
		log.Printf("PDF text extraction failed: %v", err)
		doc.Issues = append(doc.Issues, "pdf_text_extraction_failed")
	}

	if len(strings.TrimSpace(text)) >= minEmbeddedTextLen {
		doc.Text = text
		doc.OCRConfidence = 100.0
		return doc, nil
	}

	log.Println("PDF seems to be scanned or has minimal text, attempting image-based OCR")

	// PaddleOCR sidecar first, if one is configured.
	if s.paddleClient != nil {
		paddleText, paddleErr := s.paddleClient.ExtractPDFText(pdfData)
		if paddleErr != nil {
			log.Printf("PaddleOCR extraction failed: %v", paddleErr)
			doc.Issues = append(doc.Issues, "paddle_ocr_failed")
		} else if len(strings.TrimSpace(paddleText)) >= minEmbeddedTextLen {
			doc.Text = paddleText
			doc.Source = "paddle"
			doc.OCRConfidence = 75.0 // Paddle reports no usable aggregate
			return doc, nil
		}
	}

	images, imgErr := s.pdfProcessor.ExtractImages(pdfData, password)
	if imgErr != nil || len(images) == 0 {
		log.Printf("Failed to extract images from PDF: %v", imgErr)
		doc.Issues = append(doc.Issues, "pdf_image_extraction_failed")
		if strings.TrimSpace(text) == "" {
			return doc, fmt.Errorf("%w: no text or page images recoverable", dto.ErrForm16NotAvailable)
		}
		// Keep whatever thin embedded text we have.
		doc.Text = text
		return doc, nil
	}

	var combinedText strings.Builder
	var totalConfidence float64
	var imageCount int

	for _, img := range images {
		// Probe each page for a verification QR sticker while we have it.
		if doc.QRPayload == "" {
			if payload, ok := probeQRCode(img); ok {
				log.Printf("QR code decoded, length: %d bytes", len(payload))
				doc.QRPayload = payload
			}
		}

		tempImgFile, err := saveImageToTempFile(img)
		if err != nil {
			log.Printf("Failed to save temporary image for OCR: %v", err)
			continue
		}

		pageText, pageConf, ocrErr := s.tesseractClient.ExtractTextAndQuality(tempImgFile)
		os.Remove(tempImgFile) // Clean up immediately
		if ocrErr != nil {
			log.Printf("OCR failed for a page: %v", ocrErr)
			continue
		}

		combinedText.WriteString(pageText)
		combinedText.WriteString("\n") // Page break
		totalConfidence += pageConf
		imageCount++
	}

	if imageCount == 0 {
		doc.Issues = append(doc.Issues, "scanned_pdf_ocr_failed")
		if strings.TrimSpace(text) == "" {
			return doc, fmt.Errorf("%w: OCR yielded no text", dto.ErrForm16NotAvailable)
		}
		doc.Text = text
		return doc, nil
	}

	doc.Text = combinedText.String()
	doc.Source = "ocr"
	doc.OCRConfidence = totalConfidence / float64(imageCount)
	if doc.OCRConfidence < 60 {
		doc.Issues = append(doc.Issues, "low_quality_document")
	}
	return doc, nil
}

// probeQRCode attempts to decode a QR code from a page image.
func probeQRCode(img image.Image) (string, bool) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", false
	}
	return result.GetText(), true
}

// saveImageToTempFile writes a page image to a temporary PNG for Tesseract.
func saveImageToTempFile(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "form16-page-*.png")
	if err != nil {
		return "", err
	}
	defer tempFile.Close()

	if err := png.Encode(tempFile, img); err != nil {
		os.Remove(tempFile.Name())
		return "", err
	}
	return tempFile.Name(), nil
}
