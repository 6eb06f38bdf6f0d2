// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package jurisdiction

import (
	"encoding/json"
	"fmt"
	"io/fs"
)

// DecodeDataset reads one bundled JSON dataset from fsys.
//
// Country packages embed their datasets and decode them once while the
// resolver is built; a malformed file is a startup error.
func DecodeDataset[T any](fsys fs.FS, name string) (T, error) {
	var dataset T

	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return dataset, fmt.Errorf("jurisdiction_read_dataset %s: %w", name, err)
	}

	if err := json.Unmarshal(raw, &dataset); err != nil {
		return dataset, fmt.Errorf("jurisdiction_decode_dataset %s: %w", name, err)
	}

	return dataset, nil
}
