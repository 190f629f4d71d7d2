// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Configuration fields.
	FieldFlavor      = "flavor"
	FieldRenderer    = "renderer"
	FieldEnabled     = "enabled"
	FieldStrictOrder = "strict_order"
	FieldJobs        = "jobs"

	// Engine fields.
	FieldAnnotations = "annotations"
	FieldSpans       = "spans"
	FieldInserted    = "inserted"
	FieldFormat      = "format"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesWithErrors = "files_with_errors"
	FieldFilesRendered   = "files_rendered"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
