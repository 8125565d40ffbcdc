package errors

// Messages returned in the error payload, one per status the API emits.
const (
	MsgBadRequest         = "Bad Request"
	MsgNotFound           = "Not Found"
	MsgMethodNotAllowed   = "Method Not Allowed"
	MsgUnprocessable      = "Unprocessable"
	MsgInternalError      = "Server Error"
	MsgServiceUnavailable = "Service Unavailable"

	// MsgResourceNotFound is used in success:false bodies that are not HTTP errors.
	MsgResourceNotFound = "resource not found"
)
