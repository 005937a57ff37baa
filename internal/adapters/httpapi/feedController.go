package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"feedline/internal/adapters/httpapi/middleware"
	"feedline/internal/apperr"
	imagePort "feedline/internal/ports/image"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// acceptedImageTypes همان فیلتر آپلود: png و jpeg
var acceptedImageTypes = []string{"image/png", "image/jpeg", "image/jpg"}

type FeedController struct {
	uc             FeedUseCase
	storage        imagePort.ImageStorage
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewFeedController(uc FeedUseCase, storage imagePort.ImageStorage, maxUploadBytes int64, logger *zap.Logger) *FeedController {
	return &FeedController{uc: uc, storage: storage, maxUploadBytes: maxUploadBytes, logger: logger}
}

type postForm struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
}

func (ctl *FeedController) ListPosts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		middleware.RespondError(c, ctl.logger, apperr.Validation("Invalid page.", nil))
		return
	}
	res, err := ctl.uc.ListPosts(c.Request.Context(), page, 0)
	if err != nil {
		middleware.RespondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *FeedController) CreatePost(c *gin.Context) {
	userID, ok := ctl.userID(c)
	if !ok {
		return
	}
	var req postForm
	if err := c.ShouldBind(&req); err != nil {
		middleware.RespondError(c, ctl.logger, bindError(err))
		return
	}
	imagePath, err := ctl.storeUpload(c)
	if err != nil {
		middleware.RespondError(c, ctl.logger, err)
		return
	}

	res, err := ctl.uc.CreatePost(c.Request.Context(), userID, req.Title, req.Content, imagePath)
	if err != nil {
		middleware.RespondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully!",
		"post":    res.Post,
		"creator": res.Creator,
	})
}

func (ctl *FeedController) GetPost(c *gin.Context) {
	p, err := ctl.uc.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		middleware.RespondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post fetched.", "post": p})
}

func (ctl *FeedController) UpdatePost(c *gin.Context) {
	userID, ok := ctl.userID(c)
	if !ok {
		return
	}
	var req postForm
	if err := c.ShouldBind(&req); err != nil {
		middleware.RespondError(c, ctl.logger, bindError(err))
		return
	}
	imagePath, err := ctl.storeUpload(c)
	if err != nil {
		middleware.RespondError(c, ctl.logger, err)
		return
	}

	p, err := ctl.uc.UpdatePost(c.Request.Context(), userID, c.Param("postId"), req.Title, req.Content, imagePath)
	if err != nil {
		middleware.RespondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post updated!", "post": p})
}

func (ctl *FeedController) DeletePost(c *gin.Context) {
	userID, ok := ctl.userID(c)
	if !ok {
		return
	}
	if err := ctl.uc.DeletePost(c.Request.Context(), userID, c.Param("postId")); err != nil {
		middleware.RespondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted post."})
}

func (ctl *FeedController) GetStatus(c *gin.Context) {
	userID, ok := ctl.userID(c)
	if !ok {
		return
	}
	status, err := ctl.uc.GetStatus(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (ctl *FeedController) UpdateStatus(c *gin.Context) {
	userID, ok := ctl.userID(c)
	if !ok {
		return
	}
	var req struct {
		Status *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		middleware.RespondError(c, ctl.logger, apperr.Validation("Status is required.", nil))
		return
	}
	status, err := ctl.uc.UpdateStatus(c.Request.Context(), userID, *req.Status)
	if err != nil {
		middleware.RespondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully", "status": status})
}

func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.Validation("Image is too large.", nil)
	}
	return apperr.Validation("Validation failed, entered data is incorrect.", nil)
}

// گرفتن userID از context
func (ctl *FeedController) userID(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.RespondError(c, ctl.logger, apperr.InvalidToken("Not authenticated.", nil))
	}
	return userID, ok
}

// storeUpload saves the "image" file and returns its reference. It returns
// "" when no file was sent or the file is not an accepted image type.
func (ctl *FeedController) storeUpload(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", bindError(err)
	}
	if ctl.maxUploadBytes > 0 && fh.Size > ctl.maxUploadBytes {
		return "", apperr.Validation("Image is too large.", nil)
	}

	f, err := fh.Open()
	if err != nil {
		return "", apperr.Transient("failed to open upload", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", apperr.Transient("failed to read upload", err)
	}
	mt := mimetype.Detect(head[:n])
	if !mimetype.EqualsAny(mt.String(), acceptedImageTypes...) {
		ctl.logger.Info("Upload rejected by type filter", zap.String("filename", fh.Filename), zap.String("type", mt.String()))
		return "", nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", apperr.Transient("failed to rewind upload", err)
	}

	ref, err := ctl.storage.Save(c.Request.Context(), imagePort.Upload{
		Filename:    fh.Filename,
		ContentType: mt.String(),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return "", apperr.Transient("failed to store image", err)
	}
	return ref, nil
}
