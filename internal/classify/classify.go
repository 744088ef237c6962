// Package classify maps file names to a display category and a MIME type.
package classify

import "strings"

// Category is the coarse kind of a file.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryDocument Category = "document"
	CategoryArchive  Category = "archive"
	CategoryAudio    Category = "audio"
	CategoryCode     Category = "code"
	CategoryOther    Category = "other"
)

// DefaultMimeType is used for unknown or missing extensions.
const DefaultMimeType = "application/octet-stream"

type entry struct {
	category Category
	mime     string
}

var table = map[string]entry{
	// image
	"jpg":  {CategoryImage, "image/jpeg"},
	"jpeg": {CategoryImage, "image/jpeg"},
	"png":  {CategoryImage, "image/png"},
	"gif":  {CategoryImage, "image/gif"},
	"webp": {CategoryImage, "image/webp"},
	"svg":  {CategoryImage, "image/svg+xml"},
	"bmp":  {CategoryImage, "image/bmp"},
	"ico":  {CategoryImage, "image/vnd.microsoft.icon"},
	"tiff": {CategoryImage, "image/tiff"},

	// video
	"mp4":  {CategoryVideo, "video/mp4"},
	"webm": {CategoryVideo, "video/webm"},
	"ogv":  {CategoryVideo, "video/ogg"},
	"avi":  {CategoryVideo, "video/x-msvideo"},
	"mov":  {CategoryVideo, "video/quicktime"},
	"wmv":  {CategoryVideo, "video/x-ms-wmv"},
	"flv":  {CategoryVideo, "video/x-flv"},
	"mkv":  {CategoryVideo, "video/x-matroska"},
	"m4v":  {CategoryVideo, "video/x-m4v"},
	"3gp":  {CategoryVideo, "video/3gpp"},

	// document
	"pdf":  {CategoryDocument, "application/pdf"},
	"doc":  {CategoryDocument, "application/msword"},
	"docx": {CategoryDocument, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	"txt":  {CategoryDocument, "text/plain"},
	"rtf":  {CategoryDocument, "application/rtf"},
	"odt":  {CategoryDocument, "application/vnd.oasis.opendocument.text"},
	"xls":  {CategoryDocument, "application/vnd.ms-excel"},
	"xlsx": {CategoryDocument, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	"ppt":  {CategoryDocument, "application/vnd.ms-powerpoint"},
	"pptx": {CategoryDocument, "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
	"csv":  {CategoryDocument, "text/csv"},
	"md":   {CategoryDocument, "text/markdown"},

	// archive
	"zip": {CategoryArchive, "application/zip"},
	"rar": {CategoryArchive, "application/vnd.rar"},
	"7z":  {CategoryArchive, "application/x-7z-compressed"},
	"tar": {CategoryArchive, "application/x-tar"},
	"gz":  {CategoryArchive, "application/gzip"},
	"bz2": {CategoryArchive, "application/x-bzip2"},

	// audio
	"mp3":  {CategoryAudio, "audio/mpeg"},
	"wav":  {CategoryAudio, "audio/wav"},
	"ogg":  {CategoryAudio, "audio/ogg"},
	"oga":  {CategoryAudio, "audio/ogg"},
	"flac": {CategoryAudio, "audio/flac"},
	"m4a":  {CategoryAudio, "audio/mp4"},
	"aac":  {CategoryAudio, "audio/aac"},
	"wma":  {CategoryAudio, "audio/x-ms-wma"},

	// code
	"js":   {CategoryCode, "text/javascript"},
	"ts":   {CategoryCode, "text/plain"},
	"jsx":  {CategoryCode, "text/plain"},
	"tsx":  {CategoryCode, "text/plain"},
	"html": {CategoryCode, "text/html"},
	"css":  {CategoryCode, "text/css"},
	"scss": {CategoryCode, "text/plain"},
	"json": {CategoryCode, "application/json"},
	"xml":  {CategoryCode, "application/xml"},
	"yaml": {CategoryCode, "application/yaml"},
	"py":   {CategoryCode, "text/x-python"},
	"java": {CategoryCode, "text/x-java"},
	"cpp":  {CategoryCode, "text/x-c++src"},
	"c":    {CategoryCode, "text/x-csrc"},
	"cs":   {CategoryCode, "text/plain"},
	"php":  {CategoryCode, "application/x-httpd-php"},
	"go":   {CategoryCode, "text/x-go"},
	"rs":   {CategoryCode, "text/x-rust"},
}

// Extension returns the lower-cased text after the last dot of name, or ""
// when there is none.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// Classify returns the category and MIME type for name. Unknown names fall
// back to CategoryOther and DefaultMimeType.
func Classify(name string) (Category, string) {
	e, ok := table[Extension(name)]
	if !ok {
		return CategoryOther, DefaultMimeType
	}
	return e.category, e.mime
}

func CategoryOf(name string) Category {
	c, _ := Classify(name)
	return c
}

func MimeTypeOf(name string) string {
	_, m := Classify(name)
	return m
}

// IsPlayable reports whether files of category c can be attached to a media
// player.
func IsPlayable(c Category) bool {
	return c == CategoryAudio || c == CategoryVideo
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryImage, CategoryVideo, CategoryDocument, CategoryArchive,
		CategoryAudio, CategoryCode, CategoryOther,
	}
}

// ParseCategory accepts a category name, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Label is a human-readable name for the category.
func (c Category) Label() string {
	switch c {
	case CategoryImage:
		return "Image file"
	case CategoryVideo:
		return "Video file"
	case CategoryDocument:
		return "Document"
	case CategoryArchive:
		return "Archive"
	case CategoryAudio:
		return "Audio file"
	case CategoryCode:
		return "Source code"
	default:
		return "Other file"
	}
}
