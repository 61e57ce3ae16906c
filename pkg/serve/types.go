package serve

// HealthResponse is the payload for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Datasets int    `json:"datasets"`
	Routes   int    `json:"routes"`
	Files    int    `json:"files"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
