package logging

// Field name constants for structured logging.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"
	FieldLayer      = "layer"

	// Run options.
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"
	FieldVerify = "verify"

	// Repair fields.
	FieldLanguage  = "language"
	FieldDialect   = "dialect"
	FieldEdits     = "edits"
	FieldRewrites  = "rewrites"
	FieldWarning   = "warning"
	FieldFormatter = "formatter"
	FieldOutcome   = "outcome"
	FieldExitCode  = "exit_code"
	FieldStderr    = "stderr"
	FieldCommand   = "command"
	FieldDuration  = "duration"

	// Statistics.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesModified   = "files_modified"
	FieldFilesSkipped    = "files_skipped"
	FieldFilesErrored    = "files_errored"
	FieldFixesTotal      = "fixes_total"

	// Version.
	FieldVersion     = "version"
	FieldCommit      = "commit"
	FieldBuilt       = "built"
	FieldSyntaxTrees = "syntax_trees"

	// Language listing.
	FieldExtensions = "extensions"
	FieldAvailable  = "available"
)
