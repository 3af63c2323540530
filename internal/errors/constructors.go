package errors

// Convenience constructors for the common failure modes of a build.

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ConfigInvalid(field, reason string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "invalid configuration").
		WithContext("field", field).
		WithContext("reason", reason)
}

func ConfigParseError(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "failed to parse configuration").
		WithContext("path", path)
}

// Content errors

func ContentParseError(path string, cause error) *SiteError {
	return Wrap(cause, CategoryContent, SeverityFatal, "failed to parse content file").
		WithContext("path", path)
}

func UnknownCollection(path, collection string) *SiteError {
	return New(CategoryContent, SeverityFatal, "page declares a collection that is not configured").
		WithContext("path", path).
		WithContext("collection", collection)
}

func PermalinkError(path, placeholder string) *SiteError {
	return New(CategoryContent, SeverityFatal, "permalink placeholder cannot be resolved").
		WithContext("path", path).
		WithContext("placeholder", placeholder)
}

func DuplicateOutputPath(output string, sources []string) *SiteError {
	return New(CategoryContent, SeverityFatal, "multiple pages resolve to the same output path").
		WithContext("output", output).
		WithContext("sources", sources)
}

// Template errors

func TemplateResolutionError(layout string, cause error) *SiteError {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "template resolution failed").
		WithContext("layout", layout)
}

func LayoutNotFound(layout, page string) *SiteError {
	return New(CategoryTemplate, SeverityFatal, "layout not found").
		WithContext("layout", layout).
		WithContext("page", page)
}

// Render and filesystem errors

func RenderError(page string, cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityFatal, "page rendering failed").
		WithContext("page", page)
}

func OutputError(operation string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
