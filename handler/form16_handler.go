package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/Santhanasabari/KSTAX/dto"
	"github.com/Santhanasabari/KSTAX/service"

	"github.com/gin-gonic/gin"
)

type Form16Handler struct {
	form16Service *service.Form16Service
	reportService *service.ReportService
	excelService  *service.ExcelService
}

func NewForm16Handler(
	form16Service *service.Form16Service,
	reportService *service.ReportService,
	excelService *service.ExcelService,
) *Form16Handler {
	return &Form16Handler{
		form16Service: form16Service,
		reportService: reportService,
		excelService:  excelService,
	}
}

// ExtractConfigured handles GET /form16/extract
func (h *Form16Handler) ExtractConfigured(c *gin.Context) {
	log.Println("Received Form 16 extraction request (configured document)")

	response, err := h.form16Service.ExtractConfigured()
	if err != nil {
		h.sendExtractionError(c, err)
		return
	}

	log.Println("Form 16 extraction completed successfully")
	c.JSON(http.StatusOK, response)
}

// ExtractUpload handles POST /form16/extract with a multipart certificate
func (h *Form16Handler) ExtractUpload(c *gin.Context) {
	log.Println("Received Form 16 extraction request (upload)")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Certificate file is required", err)
		return
	}

	request := &dto.Form16ExtractRequest{
		File:     fileHeader,
		Password: c.PostForm("password"),
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	response, err := h.form16Service.ExtractUpload(request.File, request.Password)
	if err != nil {
		h.sendExtractionError(c, err)
		return
	}

	log.Println("Form 16 extraction completed successfully")
	c.JSON(http.StatusOK, response)
}

// DownloadReport handles GET /form16/report
func (h *Form16Handler) DownloadReport(c *gin.Context) {
	response, err := h.form16Service.ExtractConfigured()
	if err != nil {
		h.sendExtractionError(c, err)
		return
	}

	pdfBytes, err := h.reportService.BuildSummaryPDF(response.Form16Fields)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to render summary report", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="form16_summary.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// DownloadWorkbook handles GET /form16/workbook
func (h *Form16Handler) DownloadWorkbook(c *gin.Context) {
	response, err := h.form16Service.ExtractConfigured()
	if err != nil {
		h.sendExtractionError(c, err)
		return
	}

	xlsxBytes, err := h.excelService.BuildWorkbook(response.Form16Fields)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to render workbook", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="form16_summary.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", xlsxBytes)
}

// DownloadRaw handles GET /form16/raw, serving the original certificate
func (h *Form16Handler) DownloadRaw(c *gin.Context) {
	data, err := h.form16Service.LoadConfigured()
	if err != nil {
		h.sendExtractionError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="form16.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// sendExtractionError maps the document-unavailable sentinel to 404; every
// other failure is an internal error. Field-level misses never reach here.
func (h *Form16Handler) sendExtractionError(c *gin.Context, err error) {
	if errors.Is(err, dto.ErrForm16NotAvailable) {
		h.sendError(c, http.StatusNotFound, "Form 16 document not available", err)
		return
	}
	h.sendError(c, http.StatusInternalServerError, "Failed to extract Form 16 fields", err)
}

// sendError sends a structured error response
func (h *Form16Handler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "EXTRACTION_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
