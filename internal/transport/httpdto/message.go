package httpdto

// CreateMessageRequest submits a new message over the REST edge.
type CreateMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Content     string `json:"content" binding:"required,max=500"`
}

// MessageParams carries pagination for the feed query.
type MessageParams struct {
	PageNumber int `form:"pageNumber,default=1" binding:"omitempty,min=1"`
	PageSize   int `form:"pageSize,default=10" binding:"omitempty,min=1,max=100"`
}
