package runner

// FileOutcome is the result of one discovered file. Exactly one of Result
// and Error is set.
type FileOutcome struct {
	Path   string
	Result *PipelineResult
	Error  error
}

// Stats are the totals of a run, reported by every output format.
type Stats struct {
	FilesDiscovered int `json:"files_discovered"`
	FilesProcessed  int `json:"files_processed"`
	FilesErrored    int `json:"files_errored"`

	// FilesSkipped counts outputs not written because the source changed.
	FilesSkipped int `json:"files_skipped"`
	// FilesRendered counts output files created or changed.
	FilesRendered int `json:"files_rendered"`

	Annotations int `json:"annotations"`
	// SpansPadded counts spans whose reading was wider than the base.
	SpansPadded int `json:"spans_padded"`
	// Inserted is the number of placeholder runes added over all files.
	Inserted int `json:"inserted"`
}

// Result is the outcome of Runner.Run, with Files in discovery order.
type Result struct {
	Files []FileOutcome
	Stats Stats

	// Errors holds failures not tied to a single file.
	Errors []error
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	pr := outcome.Result
	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
		return
	case pr == nil:
		return
	}

	r.Stats.FilesProcessed++
	if pr.Skipped {
		r.Stats.FilesSkipped++
	}
	if pr.Written {
		r.Stats.FilesRendered++
	}
	r.Stats.Annotations += pr.Annotations()
	r.Stats.SpansPadded += pr.Padded()
	if pr.Result != nil {
		r.Stats.Inserted += pr.Result.Inserted
	}
}
