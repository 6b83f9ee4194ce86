package scanner

import (
	"context"

	"github.com/theopenlane/sentinel/internal/fingerprint"
	"github.com/theopenlane/sentinel/internal/types"
)

// Interface defines the contract for takeover scanning implementations
type Interface interface {
	Scan(ctx context.Context, candidates []string) (*types.ScanResult, error)
	Fingerprints() *fingerprint.Table
	Close() error
}

var _ Interface = (*Scanner)(nil)
