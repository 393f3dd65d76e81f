package logging

// Structured logging field names.
const (
	FieldError    = "error"
	FieldPath     = "path"
	FieldPaths    = "paths"
	FieldFiles    = "files"
	FieldLanguage = "language"
	FieldBackend  = "backend"
	FieldRequest  = "request_id"
	FieldJobs     = "jobs"
	FieldDuration = "duration"

	FieldCacheHit   = "cache_hit"
	FieldLines      = "lines"
	FieldNodes      = "nodes"
	FieldScopes     = "scopes"
	FieldDecls      = "declarations"
	FieldDegraded   = "degraded"
	FieldConfigFile = "config_file"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
	FieldTool    = "tool"
	FieldRoot    = "root"
)
