package interfaces

import "context"

// -----------------------------------------------------------------------------
// INetworkManager defines the contract for HTTP requests against the statistics APIs.
// -----------------------------------------------------------------------------

type INetworkManager interface {

	// -----------------------------------------------------------------------------

	// Get performs a single GET request to the specified URL with query parameters.
	// Returns the response body as bytes or an error; non-200 answers are errors.
	Get(ctx context.Context, url string, params map[string]string) ([]byte, error)
}
