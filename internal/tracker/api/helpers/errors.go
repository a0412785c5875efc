package helpers

import (
	"fmt"

	"github.com/imroc/req/v3"
)

type ResponseError struct {
	Status string
	Body   []byte
	Code   int
}

// Error converts the response error to string, but does not print body!
func (e *ResponseError) Error() string {
	return fmt.Sprintf("code: %d status: %s", e.Code, e.Status)
}

// ErrorFromResponse provides properly typed errors for further handling
func ErrorFromResponse(err error, resp *req.Response) error {
	// Transport level errors are relayed unwrapped
	if err != nil {
		return err
	}

	if resp == nil {
		return fmt.Errorf("no response received")
	}

	if resp.IsSuccessState() {
		return nil
	}

	return &ResponseError{
		Code:   resp.StatusCode,
		Status: resp.Status,
		Body:   resp.Bytes(),
	}
}
