package watcher

// ChangeAnalysis describes what a batch of changes means for the served graph
type ChangeAnalysis struct {
	NeedReload   bool
	FileRemoved  bool
	ChangedFiles []string
}

// AnalyzeChanges decides how to react to a debounced change batch.
// A removed file keeps the last good graph; anything else triggers a reload.
func AnalyzeChanges(event ChangeEvent) *ChangeAnalysis {
	analysis := &ChangeAnalysis{
		ChangedFiles: event.Paths,
	}

	switch event.Type {
	case ChangeTypeWritten:
		analysis.NeedReload = true
	case ChangeTypeRemoved:
		analysis.FileRemoved = true
	}

	return analysis
}
