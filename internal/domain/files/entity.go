package files

import "time"

// File is a stored resume document. Its lifecycle is owned by the document
// side of the platform; the analysis pipeline only reads it and links
// results to it by id.
type File struct {
	ID          string    `json:"id"`
	FolderID    string    `json:"folder_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	ObjectKey   string    `json:"object_key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Blob is an in-memory copy of a stored object.
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}
