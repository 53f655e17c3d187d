package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/artconnect/marketplace/internal/dto"
	"github.com/artconnect/marketplace/internal/middleware"
	"github.com/artconnect/marketplace/internal/services"
	"github.com/artconnect/marketplace/internal/store"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
)

const (
	maxImageSize = 8 << 20
	maxAudioSize = 25 << 20
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

type ArtHandler struct {
	artService *services.ArtService
}

func NewArtHandler(artService *services.ArtService) *ArtHandler {
	return &ArtHandler{artService: artService}
}

// AnalyzeDraft accepts the multipart image and voice description, runs the
// analysis and stores the result as a draft.
func (h *ArtHandler) AnalyzeDraft(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	form := dto.DraftForm{Voice: c.FormValue("voice")}
	if err := validate.Struct(form); err != nil {
		return validationError(c, describe(err))
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return validationError(c, "image file is required")
	}
	image, err := readUpload(fh, maxImageSize)
	if err != nil {
		return validationError(c, err.Error())
	}
	mtype := mimetype.Detect(image)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return validationError(c, fmt.Sprintf("unsupported image type %s", mtype.String()))
	}

	art, analysis, err := h.artService.SubmitDraft(c.UserContext(), user.Phone, image, mtype.String(), form.Voice)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewDraftResponse(art.ID, analysis))
}

func (h *ArtHandler) Publish(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	var req dto.PublishRequest
	if !bind(c, &req) {
		return nil
	}

	art, err := h.artService.Publish(c.UserContext(), user.Phone, req.ArtID, req.FinalPrice)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Artwork published",
		"artwork": dto.NewArtworkResponse(art),
	})
}

func (h *ArtHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	id, ok := artID(c)
	if !ok {
		return respondError(c, store.ErrNotFound)
	}
	if err := h.artService.Delete(c.UserContext(), user.Phone, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Artwork deleted"})
}

func (h *ArtHandler) Get(c *fiber.Ctx) error {
	id, ok := artID(c)
	if !ok {
		return respondError(c, store.ErrNotFound)
	}
	art, err := h.artService.GetPublished(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewArtworkResponse(art))
}

// Image serves the stored upload of a published artwork.
func (h *ArtHandler) Image(c *fiber.Ctx) error {
	id, ok := artID(c)
	if !ok {
		return respondError(c, store.ErrNotFound)
	}
	art, err := h.artService.GetPublished(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	contentType := art.ImageType
	if contentType == "" {
		contentType = mimetype.Detect(art.ImageData).String()
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(art.ImageData)
}

func (h *ArtHandler) Transcribe(c *fiber.Ctx) error {
	if _, ok := middleware.CurrentUser(c); !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	fh, err := c.FormFile("audio")
	if err != nil {
		return validationError(c, "audio file is required")
	}
	if fh.Size > maxAudioSize {
		return validationError(c, "audio file too large")
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	contentType := fh.Header.Get(fiber.HeaderContentType)
	text, err := h.artService.Transcribe(c.UserContext(), f, fh.Filename, contentType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TranscriptionResponse{Text: text})
}

func artID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func readUpload(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	if fh.Size > limit {
		return nil, fmt.Errorf("file too large, max %d MB", limit>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file too large, max %d MB", limit>>20)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	return data, nil
}
