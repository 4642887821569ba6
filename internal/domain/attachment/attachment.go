package attachment

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxFileSize is the per-file cap for pending attachments. Files above it are
// rejected individually; a file of exactly this size is accepted.
const MaxFileSize = 10 * 1024 * 1024 // 10 MiB

// Category is the coarse classification assigned to a selected file.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryDocument Category = "document"
	CategoryCode     Category = "code"
	CategoryOther    Category = "other"
)

// Preview is a locally held resource backing an image thumbnail. It must be
// released when the attachment leaves the pending set.
type Preview interface {
	Release()
}

// Attachment is a transient, client-only record of a selected file. It is
// never stored durably; only a placeholder note survives into persisted
// message text.
type Attachment struct {
	Filename string
	MIMEType string
	Size     int64
	Category Category
	Preview  Preview
}

var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".ppt":  true,
	".pptx": true,
	".odt":  true,
	".rtf":  true,
	".txt":  true,
	".md":   true,
	".csv":  true,
}

var codeExtensions = map[string]bool{
	".go":    true,
	".py":    true,
	".js":    true,
	".jsx":   true,
	".ts":    true,
	".tsx":   true,
	".java":  true,
	".c":     true,
	".cc":    true,
	".cpp":   true,
	".h":     true,
	".rs":    true,
	".rb":    true,
	".php":   true,
	".sh":    true,
	".sql":   true,
	".html":  true,
	".css":   true,
	".json":  true,
	".yaml":  true,
	".yml":   true,
	".toml":  true,
	".xml":   true,
	".swift": true,
	".kt":    true,
}

// Classify maps a MIME type and filename to one of the five categories. The
// MIME prefix wins; the filename extension is the fallback for files whose
// type the picker reported generically.
func Classify(mimeType, filename string) Category {
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return CategoryImage
	case strings.HasPrefix(mime, "video/"):
		return CategoryVideo
	case mime == "application/pdf",
		strings.HasPrefix(mime, "text/"),
		strings.Contains(mime, "document"),
		strings.Contains(mime, "spreadsheet"),
		strings.Contains(mime, "presentation"):
		return CategoryDocument
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case codeExtensions[ext]:
		return CategoryCode
	case documentExtensions[ext]:
		return CategoryDocument
	}
	return CategoryOther
}

// Placeholder is the text persisted in place of attachment content when a
// message is sent with files but no typed text.
func Placeholder(count int) string {
	return fmt.Sprintf("[Attached %d file(s)]", count)
}
