package prompt

import "time"

// Snapshot captures the pre-edit state of prev as the next history version.
// now is used when prev has no update timestamp.
func Snapshot(prev *Prompt, now time.Time) Version {
	v := Version{
		GuideText: prev.GuideText,
		UpdatedAt: prev.UpdatedAt,
		Version:   len(prev.History) + 1,
	}
	switch {
	case len(prev.Workflow) > 0:
		v.Workflow = cloneBlocks(prev.Workflow)
	case prev.Content != "":
		v.Workflow = []Block{{ID: LegacyBlockID, Title: LabelLegacy, Content: prev.Content}}
	default:
		v.Workflow = []Block{}
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = now
	}
	return v
}

// AppendSnapshot returns a new history with v appended. history is not modified.
func AppendSnapshot(history []Version, v Version) []Version {
	out := make([]Version, len(history), len(history)+1)
	copy(out, history)
	return append(out, v)
}

// Restore loads a version into an editable state without touching stored history.
func Restore(v Version) EditState {
	return EditState{
		GuideText: v.GuideText,
		Workflow:  migrateWorkflow(v.Workflow, v.Content, v.VideoPrompt),
	}
}

// FindVersion returns the entry with the given version number.
func FindVersion(history []Version, version int) (Version, bool) {
	for _, v := range history {
		if v.Version == version {
			return v, true
		}
	}
	return Version{}, false
}
