package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"geovista-api/services"
	"geovista-api/utils"
)

const maxUploadBytes = 5 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type UploadController struct {
	storage services.StorageService
}

func NewUploadController(storage services.StorageService) *UploadController {
	return &UploadController{storage: storage}
}

// Upload accepts a multipart image and returns its public URL. Clients put
// the URL into region/place image lists or checkin photos.
func (uc *UploadController) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.SendValidationError(c, "An image file is required")
		return
	}
	if file.Size > maxUploadBytes {
		utils.SendValidationError(c, "Image must be 5 MB or smaller")
		return
	}
	if !allowedImageExts[strings.ToLower(filepath.Ext(file.Filename))] {
		utils.SendValidationError(c, "Unsupported image format")
		return
	}

	src, err := file.Open()
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to read upload")
		return
	}
	defer src.Close()

	url, err := uc.storage.Save(file.Filename, src)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	utils.SendCreated(c, "Image uploaded", gin.H{"url": url})
}

// Delete removes a stored upload, used by moderators taking down reported
// images. Admin-gated in the routes.
func (uc *UploadController) Delete(c *gin.Context) {
	if err := uc.storage.Delete(c.Param("filename")); err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to delete upload")
		return
	}
	utils.SendSuccess(c, "Upload deleted", nil)
}
