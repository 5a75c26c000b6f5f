package include

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// httpTimeout bounds an https:// include fetch; spec.md §5 permits a
// timeout even though cancellation is otherwise unexposed to the caller.
const httpTimeout = 30 * time.Second

// FetchURL retrieves the text of an https:// include target, grounded on
// the teacher's modules/http_client package, which likewise builds a plain
// *http.Client with an explicit Timeout rather than reaching for a
// higher-level HTTP library.
func FetchURL(ctx context.Context, url string) (string, error) {
	client := &http.Client{Timeout: httpTimeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body from %s: %w", url, err)
	}
	return string(body), nil
}
