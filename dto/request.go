package dto

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// Form16ExtractRequest represents an uploaded certificate
type Form16ExtractRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
	// Deductors commonly protect Form 16 PDFs with PAN+DOB passwords.
	Password string `form:"password"`
}

// Validate performs basic validation on the request
func (r *Form16ExtractRequest) Validate() error {
	if r.File == nil {
		return errors.New("file is required")
	}
	if strings.ToLower(filepath.Ext(r.File.Filename)) != ".pdf" {
		return errors.New("only PDF certificates are supported")
	}
	return nil
}
