package handler

// SubmitPayload is the JSON body accepted by /api/submit.
type SubmitPayload struct {
	Prompt string `json:"prompt"`
}

// SubmitResponse is returned by /api/submit on success.
type SubmitResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is returned by /api/submit on failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type pageData struct {
	Endpoint string
	Prompt   string
	Response string
	Error    string
}
