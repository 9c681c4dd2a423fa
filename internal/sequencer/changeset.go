package sequencer

import (
	"os"
	"path/filepath"

	"gitship/internal/gitcmd"
)

// Change is one pending local modification.
type Change struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ChangeSet is the ordered set of uncommitted modifications, computed fresh
// each run and never cached.
type ChangeSet struct {
	Changes []Change
}

func (cs ChangeSet) Empty() bool {
	return len(cs.Changes) == 0
}

func (cs ChangeSet) TotalBytes() int64 {
	var total int64
	for _, c := range cs.Changes {
		total += c.Size
	}
	return total
}

// buildChangeSet turns porcelain status entries into a ChangeSet, preserving
// enumeration order. The secrets file is filtered by exact path match even if
// it is still present in the working tree. Deleted files stat to size zero.
func buildChangeSet(workDir, secretsFile string, entries []gitcmd.StatusEntry) ChangeSet {
	var cs ChangeSet
	for _, e := range entries {
		if e.Path == secretsFile {
			continue
		}
		var size int64
		if info, err := os.Stat(filepath.Join(workDir, e.Path)); err == nil && !info.IsDir() {
			size = info.Size()
		}
		cs.Changes = append(cs.Changes, Change{Path: e.Path, Size: size})
	}
	return cs
}
