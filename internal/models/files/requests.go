package models

type AddFileRequest struct {
	TopicID  string `json:"topic_id"`
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
}

type AddFileResponse struct {
	File File `json:"file"`
}

type ListFilesRequest struct {
	TopicID string `json:"topic_id"`
}

type ListFilesResponse struct {
	Files []File `json:"files"`
	Total int    `json:"total"`
}

type RemoveFileRequest struct {
	ID string `json:"id"`
}
