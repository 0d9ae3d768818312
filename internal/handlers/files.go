package handlers

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shubhamsharma-10/CloudDrive/internal/middleware"
	"github.com/shubhamsharma-10/CloudDrive/internal/models"
	"github.com/shubhamsharma-10/CloudDrive/internal/services"
	"github.com/shubhamsharma-10/CloudDrive/pkg/utils"
)

type FilesHandler struct {
	Files          *services.FileService
	MaxUploadBytes int64
	FrontendURL    string
}

func NewFilesHandler(files *services.FileService, maxUploadBytes int64, frontendURL string) *FilesHandler {
	return &FilesHandler{
		Files:          files,
		MaxUploadBytes: maxUploadBytes,
		FrontendURL:    strings.TrimRight(frontendURL, "/"),
	}
}

type renameRequest struct {
	NewFilename string `json:"newFilename" validate:"required,max=1024"`
}

type shareResponse struct {
	SharedToken string       `json:"sharedToken"`
	ShareURL    string       `json:"shareUrl"`
	File        *models.File `json:"file"`
}

func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "No file uploaded")
	}
	if fileHeader.Size > h.MaxUploadBytes {
		return utils.Error(c, fiber.StatusBadRequest, "file too large")
	}

	stream, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed opening uploaded file")
	}
	defer stream.Close()

	filename := filepath.Base(strings.TrimSpace(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}

	file, err := h.Files.Upload(c.UserContext(), middleware.GetPrincipal(c), services.UploadInput{
		Reader:   stream,
		Filename: filename,
		MimeType: contentType,
		Size:     fileHeader.Size,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.Success(c, fiber.StatusCreated, "File uploaded successfully", file)
}

// List serves both the listing and the search routes; search additionally
// requires a query.
func (h *FilesHandler) List(c *fiber.Ctx) error {
	query := c.Query("q", c.Query("search"))

	files, err := h.Files.List(c.UserContext(), middleware.GetPrincipal(c), query)
	if err != nil {
		return respondServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Files fetched successfully", files)
}

func (h *FilesHandler) Search(c *fiber.Ctx) error {
	if strings.TrimSpace(c.Query("q", c.Query("search"))) == "" {
		return utils.Error(c, fiber.StatusBadRequest, "search query is required")
	}
	return h.List(c)
}

func (h *FilesHandler) Get(c *fiber.Ctx) error {
	id, ok := fileIDParam(c)
	if !ok {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	file, err := h.Files.Get(c.UserContext(), middleware.GetPrincipal(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "File fetched successfully", file)
}

func (h *FilesHandler) Rename(c *fiber.Ctx) error {
	id, ok := fileIDParam(c)
	if !ok {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	var req renameRequest
	if msg := bindJSON(c, &req); msg != "" {
		return utils.Error(c, fiber.StatusBadRequest, msg)
	}

	file, err := h.Files.Rename(c.UserContext(), middleware.GetPrincipal(c), id, req.NewFilename)
	if err != nil {
		return respondServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "File renamed successfully", file)
}

func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	id, ok := fileIDParam(c)
	if !ok {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	if err := h.Files.Delete(c.UserContext(), middleware.GetPrincipal(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "File deleted successfully", nil)
}

func (h *FilesHandler) Download(c *fiber.Ctx) error {
	id, ok := fileIDParam(c)
	if !ok {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	link, err := h.Files.Download(c.UserContext(), middleware.GetPrincipal(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Download URL generated", link)
}

func (h *FilesHandler) Share(c *fiber.Ctx) error {
	id, ok := fileIDParam(c)
	if !ok {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	file, err := h.Files.EnableSharing(c.UserContext(), middleware.GetPrincipal(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	token := *file.SharedToken
	return utils.Success(c, fiber.StatusOK, "Sharing enabled", shareResponse{
		SharedToken: token,
		ShareURL:    h.FrontendURL + "/shared/" + token,
		File:        file,
	})
}

func (h *FilesHandler) Unshare(c *fiber.Ctx) error {
	id, ok := fileIDParam(c)
	if !ok {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	file, err := h.Files.DisableSharing(c.UserContext(), middleware.GetPrincipal(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Sharing disabled", file)
}

func (h *FilesHandler) GetShared(c *fiber.Ctx) error {
	shared, err := h.Files.GetSharedFile(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Shared file fetched successfully", fiber.Map{"file": shared})
}
