package history

import "errors"

var (
	// ErrCampaignRequired is returned by List for an empty campaign id.
	ErrCampaignRequired = errors.New("history: campaign id is required")

	// ErrAppendFailed wraps database errors from Append.
	ErrAppendFailed = errors.New("history: failed to append outcome")

	// ErrListFailed wraps database errors from List.
	ErrListFailed = errors.New("history: failed to list outcomes")
)
