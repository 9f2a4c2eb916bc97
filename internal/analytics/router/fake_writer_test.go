package router

import (
	"context"

	"github.com/brandquill/brandquill-backend/internal/analytics/types"
)

type fakeWriter struct {
	inserted []types.ContractFunnelRow
	err      error
}

func (f *fakeWriter) InsertFunnel(_ context.Context, row types.ContractFunnelRow) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, row)
	return nil
}
