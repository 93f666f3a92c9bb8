package handlers

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/errors"
)

type AssetHandlers struct {
	store     *dataset.Store
	imagePath string
	logger    *slog.Logger
}

func NewAssetHandlers(store *dataset.Store, imagePath string, logger *slog.Logger) *AssetHandlers {
	return &AssetHandlers{
		store:     store,
		imagePath: imagePath,
		logger:    logger,
	}
}

// HandleSidebarImage serves the sidebar picture as a PNG thumbnail.
func (h *AssetHandlers) HandleSidebarImage(w http.ResponseWriter, r *http.Request) {
	img, err := h.store.Image(r.Context(), h.imagePath)
	if err != nil {
		writeError(w, r, h.logger, errors.ServiceUnavailableWrap(err, "Sidebar image unavailable"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(img.Thumbnail)
}
