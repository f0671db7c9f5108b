package httpdto

type PresignUploadRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
}

type PresignUploadResponse struct {
	UploadURL string            `json:"upload_url"`
	UploadKey string            `json:"upload_key"`
	PublicURL string            `json:"public_url,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
}
