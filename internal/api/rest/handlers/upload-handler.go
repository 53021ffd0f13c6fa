package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/helper/utils"
	"github.com/SundayYogurt/store_service/pkg/apperr"
	limitutil "github.com/SundayYogurt/store_service/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

const maxImageSize = 5 * 1024 * 1024 // 5MB

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// POST /api/products/images
// form-data: file=<image>
func (h *ProductHandler) UploadImage(c *fiber.Ctx, _ *domain.User) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.ResponseError(c, apperr.Validation("file is required"))
	}

	// validate extension
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return utils.ResponseError(c, apperr.Validation("only jpg/jpeg/png/webp allowed"))
	}

	// validate size
	if file.Size > maxImageSize {
		return utils.ResponseError(c, apperr.Validation("file too large (max 5MB)"))
	}

	f, err := file.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	// the header size is client supplied
	data, err := limitutil.ReadAllLimit(f, maxImageSize)
	if errors.Is(err, limitutil.ErrTooLarge) {
		return utils.ResponseError(c, apperr.Validation("file too large (max 5MB)"))
	}
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 20*time.Second)
	defer cancel()

	res, err := h.svc.UploadImage(ctx, data)
	if err != nil {
		return utils.ResponseError(c, err)
	}
	return utils.ResponseSuccess(c, fiber.StatusCreated, res)
}
