package context

type Key string

const (
	User      Key = "user"
	Tenant    Key = "tenant"
	APIKey    Key = "api_key"
	RequestID Key = "request_id"
	Params    Key = "params"
)
