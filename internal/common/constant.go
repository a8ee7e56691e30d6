package common

// APIKeyHeaderName is the HTTP header carrying the shared gate secret on
// inbound requests.
const APIKeyHeaderName = "X-API-KEY"
