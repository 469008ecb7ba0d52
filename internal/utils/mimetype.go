package utils

import (
	"mime"
	"path/filepath"
	"strings"
)

// File categories used to pick row icons and colors
const (
	CategoryFolder   = "folder"
	CategoryImage    = "image"
	CategoryVideo    = "video"
	CategoryAudio    = "audio"
	CategoryText     = "text"
	CategoryDocument = "document"
	CategoryArchive  = "archive"
	CategoryOther    = "other"
)

// Common file type mappings for cases where the system mime table is empty
var commonTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".html": "text/html",
	".json": "application/json",
	".zip":  "application/zip",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".7z":   "application/x-7z-compressed",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// DetectContentType guesses the MIME type of a file from its name.
func DetectContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if contentType, ok := commonTypes[ext]; ok {
		return contentType
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}

// GetFileCategory returns a general category for the content type
func GetFileCategory(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return CategoryImage
	case strings.HasPrefix(contentType, "video/"):
		return CategoryVideo
	case strings.HasPrefix(contentType, "audio/"):
		return CategoryAudio
	case strings.HasPrefix(contentType, "text/"), strings.Contains(contentType, "json"):
		return CategoryText
	case strings.Contains(contentType, "pdf"), strings.Contains(contentType, "msword"),
		strings.Contains(contentType, "officedocument"):
		return CategoryDocument
	case strings.Contains(contentType, "zip"), strings.Contains(contentType, "tar"),
		strings.Contains(contentType, "gzip"), strings.Contains(contentType, "7z"):
		return CategoryArchive
	default:
		return CategoryOther
	}
}

// CategoryOf returns the category of a listing entry.
func CategoryOf(name string, isFile bool) string {
	if !isFile {
		return CategoryFolder
	}
	return GetFileCategory(DetectContentType(name))
}

// CategoryIcon returns the icon shown next to an entry of category.
func CategoryIcon(category string) string {
	switch category {
	case CategoryFolder:
		return "📁"
	case CategoryImage:
		return "🖼️"
	case CategoryVideo:
		return "🎬"
	case CategoryAudio:
		return "🎵"
	case CategoryText:
		return "📝"
	case CategoryDocument:
		return "📄"
	case CategoryArchive:
		return "📦"
	default:
		return "📄"
	}
}
