package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/leonfashion/fashionshop-backend/api/responses"
	pkgerrors "github.com/leonfashion/fashionshop-backend/pkg/errors"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"github.com/leonfashion/fashionshop-backend/pkg/storage"
)

const maxUploadBytes = 10 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// MediaUpload accepts a multipart form with a single "file" field and returns
// the public URL path of the stored asset.
func MediaUpload(store storage.Storage, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storage unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "multipart form with a file field is required"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "file field is required"))
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedImageExts[ext] {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type"))
			return
		}

		urlPath, err := store.Save(header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing upload"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"url": urlPath})
	}
}

// MediaDelete removes a previously uploaded asset by its URL path.
func MediaDelete(store storage.Storage, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storage unavailable"))
			return
		}

		urlPath := r.URL.Query().Get("url")
		if urlPath == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "url query parameter is required"))
			return
		}

		if err := store.Delete(urlPath); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting upload"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
