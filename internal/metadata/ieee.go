// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"time"

	"github.com/pdiddy/devscholar/pkg/types"
)

// ieeeDocBase is the IEEE Xplore document deep-link prefix.
const ieeeDocBase = "https://ieeexplore.ieee.org/document/"

// IEEEProvider synthesizes placeholder records for IEEE document ids.
// Xplore has no open metadata API, so the record carries a deep link and
// a Partial marker instead of failing the resolution.
type IEEEProvider struct{}

// Type returns the provider's identifier namespace.
func (p *IEEEProvider) Type() types.IdentifierType { return types.TypeIEEE }

// Resolve never touches the network; it always succeeds with a partial
// record.
func (p *IEEEProvider) Resolve(_ context.Context, id, _ string) (*types.Metadata, error) {
	return &types.Metadata{
		Type:        types.TypeIEEE,
		ID:          id,
		Title:       "IEEE Xplore document " + id,
		AbstractURL: ieeeDocBase + id,
		Partial:     true,
		FetchedAt:   time.Now().UnixMilli(),
	}, nil
}
