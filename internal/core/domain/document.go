package domain

import (
	"path/filepath"
	"strings"
	"time"
)

type DocumentStatus string

const (
	StatusUploaded  DocumentStatus = "uploaded"
	StatusAnalyzing DocumentStatus = "analyzing"
	StatusAnalyzed  DocumentStatus = "analyzed"
	StatusFailed    DocumentStatus = "failed"
)

// FileKind is determined once at ingestion and matched exhaustively
// wherever extraction logic branches.
type FileKind string

const (
	KindText        FileKind = "text"
	KindSpreadsheet FileKind = "spreadsheet"
	KindPdf         FileKind = "pdf"
	KindImage       FileKind = "image"
	KindAudio       FileKind = "audio"
	KindUnknown     FileKind = "unknown"
)

// DetectFileKind classifies a filename by extension.
func DetectFileKind(filename string) FileKind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".log":
		return KindText
	case ".csv", ".xlsx", ".xls":
		return KindSpreadsheet
	case ".pdf":
		return KindPdf
	case ".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tif", ".tiff":
		return KindImage
	case ".wav", ".mp3", ".m4a", ".ogg", ".flac":
		return KindAudio
	default:
		return KindUnknown
	}
}

type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	Kind        FileKind       `json:"kind"`
	StoragePath string         `json:"storage_path"`
	Checksum    string         `json:"checksum,omitempty"`
	FolderID    string         `json:"folder_id,omitempty"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
