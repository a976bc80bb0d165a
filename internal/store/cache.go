package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
)

const viewCacheTTL = 1 * time.Hour

func viewKey(contractID uuid.UUID) string {
	return fmt.Sprintf("contract:view:%s", contractID)
}

func (r *WorkflowRepository) cachedView(ctx context.Context, contractID uuid.UUID) *model.ContractView {
	if r.redis == nil {
		return nil
	}
	cached, err := r.redis.Get(ctx, viewKey(contractID)).Result()
	if err != nil {
		return nil
	}
	view := &model.ContractView{}
	if err := json.Unmarshal([]byte(cached), view); err != nil {
		return nil
	}
	return view
}

func (r *WorkflowRepository) cacheView(ctx context.Context, view *model.ContractView) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(view)
	if err == nil {
		r.redis.SetEx(ctx, viewKey(view.Contract.ID), data, viewCacheTTL)
	}
}

// invalidateView drops the cached read model; called on every write that
// touches the contract or anything hanging off it.
func (r *WorkflowRepository) invalidateView(ctx context.Context, contractID uuid.UUID) {
	if r.redis == nil {
		return
	}
	r.redis.Del(ctx, viewKey(contractID))
}
