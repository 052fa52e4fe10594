package models

type AddCommentRequest struct {
	TopicID string `json:"topic_id"`
	Body    string `json:"body"`
}

type AddCommentResponse struct {
	Comment Comment `json:"comment"`
}

type ListCommentsRequest struct {
	TopicID string `json:"topic_id"`
}

type ListCommentsResponse struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
}

type UpdateCommentRequest struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

type RemoveCommentRequest struct {
	ID string `json:"id"`
}
