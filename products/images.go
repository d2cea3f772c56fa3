package products

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"kirana/utils"
)

var productPicDir = "./static/productpic"

// UploadProductImage saves a product photo under a fresh uuid filename
// and writes a 300px-wide thumbnail next to it.
func (h *Handler) UploadProductImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file missing")
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		utils.RespondWithError(w, http.StatusBadRequest, "Unsupported file type")
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Could not decode image")
		return
	}

	id := uuid.New().String()
	thumbDir := filepath.Join(productPicDir, "thumb")
	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unable to save file")
		return
	}

	fileName := id + ".jpg"
	if err := imaging.Save(img, filepath.Join(productPicDir, fileName)); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unable to save file")
		return
	}

	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbDir, fileName)); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unable to save thumbnail")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"imageUrl": "/productpic/" + fileName,
	})
}
