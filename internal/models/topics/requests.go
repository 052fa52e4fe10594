package models

type CreateTopicRequest struct {
	Title string `json:"title"`
}

type CreateTopicResponse struct {
	Topic Topic `json:"topic"`
}

type ListTopicsResponse struct {
	Topics []Topic `json:"topics"`
	Total  int     `json:"total"`
}

type UpdateTopicRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type DeleteTopicRequest struct {
	ID string `json:"id"`
}
