package diff

import (
	"strings"

	"github.com/agenthands/jsonstudio/internal/core/model"
)

const (
	NoDifferences = "No differences found"

	// rootPath names the whole document when the delta itself is a leaf.
	rootPath = "root"
)

// FormatDiffSummary flattens d into one line per added, modified or removed
// path. Entries keyed with a leading underscore are array bookkeeping and are
// skipped; moves produce no line of their own.
func FormatDiffSummary(d *model.Delta) []string {
	var changes []string
	if d != nil {
		if d.IsLeaf() {
			changes = appendLeaf(changes, rootPath, d)
		} else {
			changes = traverse(changes, "", d)
		}
	}
	if len(changes) == 0 {
		return []string{NoDifferences}
	}
	return changes
}

func traverse(changes []string, path string, d *model.Delta) []string {
	for _, e := range d.Children {
		if strings.HasPrefix(e.Key, "_") {
			continue
		}
		current := e.Key
		if path != "" {
			current = path + "." + e.Key
		}
		if e.Delta.IsLeaf() {
			changes = appendLeaf(changes, current, e.Delta)
		} else {
			changes = traverse(changes, current, e.Delta)
		}
	}
	return changes
}

func appendLeaf(changes []string, path string, d *model.Delta) []string {
	switch d.Kind {
	case model.DeltaAdded:
		return append(changes, "+ Added: "+path)
	case model.DeltaModified:
		return append(changes, "~ Modified: "+path)
	case model.DeltaDeleted:
		return append(changes, "- Removed: "+path)
	}
	return changes
}
