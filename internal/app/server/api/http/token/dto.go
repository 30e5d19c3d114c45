package token

type issueInput struct {
	Body issueRequest
}

type issueRequest struct {
	UserID       int    `json:"user_id" minimum:"1" doc:"User to issue a token for"`
	ProvisionKey string `json:"provision_key" minLength:"1" doc:"Operator provisioning key"`
}

type issueOutput struct {
	Body issueResponse
}

type issueResponse struct {
	Token  string `json:"token,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
