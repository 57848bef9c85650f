package models

// UploadRequest represents one inbound file destined for object storage.
type UploadRequest struct {
	Content     []byte
	Filename    string // Only used to derive the extension
	ContentType string // Declared by the client, passed through unverified
	Bucket      string
}

// UploadOutcome is returned once an object has been stored.
type UploadOutcome struct {
	Success bool   `json:"success"`
	Size    int64  `json:"size"`
	Bucket  string `json:"bucket"`
	Key     string `json:"key"`
	URL     string `json:"file"`
}
