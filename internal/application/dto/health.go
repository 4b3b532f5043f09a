package dto

type GetHealthCommand struct{}

type HealthOutput struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type GetOpenAPISpecQuery struct{}

type OpenAPISpecOutput struct {
	Content     []byte
	ContentType string
}
