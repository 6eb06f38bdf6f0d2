// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target

import "context"

// Repository persists campaign target lists.
type Repository interface {
	// Replace swaps the whole list of a campaign atomically.
	Replace(context context.Context, campaignID string, targets []Target) error

	// List returns one page of a campaign's targets in list order.
	List(context context.Context, campaignID string, limit, offset int) ([]Target, error)

	// Count returns how many targets a campaign has.
	Count(context context.Context, campaignID string) (int, error)
}
