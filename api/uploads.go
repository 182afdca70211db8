package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

const (
	blogThumbnailFolder    = "blogs_thumbnails"
	projectThumbnailFolder = "projects_thumbnails"
	resumeFolder           = "resumes"
)

var resumeExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

// uploader stores request files in the object store
type uploader struct {
	store      services.ObjectStore
	thumbnails *services.ThumbnailProcessor
}

// thumbnail re-encodes an uploaded image and stores it under folder
func (u uploader) thumbnail(ctx context.Context, fh *multipart.FileHeader, folder string) (services.StoredObject, error) {
	if u.store == nil {
		return services.StoredObject{}, errs.NewConfigMissingError("object storage")
	}
	file, err := fh.Open()
	if err != nil {
		return services.StoredObject{}, errs.NewImageProcessingError(err)
	}
	defer file.Close()

	encoded, contentType, err := u.thumbnails.Process(file)
	if err != nil {
		return services.StoredObject{}, err
	}
	key := services.ObjectKey(folder, "thumbnail.jpg")
	return u.store.Put(ctx, key, bytes.NewReader(encoded), contentType)
}

// document stores a resume file as uploaded
func (u uploader) document(ctx context.Context, fh *multipart.FileHeader, folder string) (services.StoredObject, error) {
	if u.store == nil {
		return services.StoredObject{}, errs.NewConfigMissingError("object storage")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !resumeExtensions[ext] {
		return services.StoredObject{}, errs.NewInvalidFieldError("resume", "resume must be a .pdf, .doc or .docx file")
	}
	file, err := fh.Open()
	if err != nil {
		return services.StoredObject{}, errs.NewInvalidFieldError("resume", "uploaded file could not be read")
	}
	defer file.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = documentContentType(ext)
	}
	return u.store.Put(ctx, services.ObjectKey(folder, fh.Filename), file, contentType)
}

func documentContentType(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
