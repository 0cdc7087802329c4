package errors

import "encoding/json"

// ErrorResponse is the flat JSON form of an error. The cause chain is left
// out; only the code, message, classification and context are exposed.
type ErrorResponse struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Classification string                 `json:"classification"`
	Context        map[string]interface{} `json:"context,omitempty"`
}

// ToJSON converts err into an ErrorResponse. Returns nil if err is nil.
// Errors that are not PlatformErrors become CodeUnknown with err.Error() as
// the message.
//
// Example:
//
//	if err != nil {
//	    _ = json.NewEncoder(os.Stderr).Encode(errors.ToJSON(err))
//	}
func ToJSON(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	response := &ErrorResponse{
		Code:           string(GetCode(err)),
		Message:        err.Error(),
		Classification: string(GetClassification(err)),
	}

	var platformErr PlatformError
	if As(err, &platformErr) {
		response.Message = platformErr.Message()
		response.Context = platformErr.Context()
	}
	return response
}

// MarshalJSON encodes the error as an ErrorResponse.
func (e *platformError) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(&ErrorResponse{
		Code:           string(e.code),
		Message:        e.message,
		Classification: string(e.classification),
		Context:        e.context,
	})
	if err != nil {
		return nil, Wrap(err, CodeInternal, "failed to marshal error response")
	}
	return data, nil
}

// MarshalJSON encodes the conflict as an ErrorResponse.
func (e *MergeConflictError) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(ToJSON(e))
	if err != nil {
		return nil, Wrap(err, CodeInternal, "failed to marshal error response")
	}
	return data, nil
}
