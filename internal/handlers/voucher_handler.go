package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/middleware"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/voucher"
)

type VoucherHandler struct {
	uploader *voucher.Uploader
	log      *zap.Logger
}

func NewVoucherHandler(uploader *voucher.Uploader, log *zap.Logger) *VoucherHandler {
	return &VoucherHandler{uploader: uploader, log: log.With(zap.String("handler", "vouchers"))}
}

// Upload receives the "file" form field and returns the stored URL, which
// the client then sends as voucher_url.
func (h *VoucherHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Arquivo obrigatório.")
		return
	}
	if fh.Size > voucher.MaxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "Arquivo muito grande.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_file", "Arquivo inválido.")
		return
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.Request.Context(), c.GetUint(middleware.ContextBranchID), f)
	switch {
	case errors.Is(err, voucher.ErrUnsupported):
		httperr.BadRequest(c, "unsupported_image", "Envie uma imagem JPEG, PNG ou WebP.")
		return
	case errors.Is(err, voucher.ErrTooLarge):
		httperr.BadRequest(c, "file_too_large", "Arquivo muito grande.")
		return
	case err != nil:
		h.log.Error("voucher upload failed", zap.Error(err))
		httperr.Internal(c, "upload_failed", "Erro ao salvar comprovante.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
