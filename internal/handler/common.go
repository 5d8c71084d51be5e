package handler

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}
