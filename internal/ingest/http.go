package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/AngelCh415/marketing-dashboard/internal/utils"
)

var errPermanent = errors.New("permanent failure")

// GetJSONWithRetry fetches url into dst, retrying transport errors and 5xx
// answers with exponential backoff. Client errors (4xx) fail immediately.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, url string, dst any) error {
	var permanent error
	err := utils.NewBackoff(100*time.Millisecond, 2).Do(ctx, func(i int) error {
		err := getJSON(ctx, c, url, dst)
		var se *statusError
		if errors.As(err, &se) && se.code < 500 {
			permanent = err
			return nil
		}
		return err
	})
	if permanent != nil {
		return errors.Join(errPermanent, permanent)
	}
	return err
}
