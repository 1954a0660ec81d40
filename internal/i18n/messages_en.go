package i18n

var english = map[string]string{
	// Import engine
	"import.empty_file":      "The file is empty or contains only a header.",
	"import.missing_columns": "CSV file is missing required columns: %s",
	"import.row.required":    "Row %s: %s is required.",
	"import.row.enum":        "Row %s: unknown %s: %s.",
	"import.row.email":       "Row %s: invalid %s: %s.",
	"import.row.number":      "Row %s: %s is not a valid number: %s.",
	"import.row.invalid":     "Row %s: %s",
	"import.errors_header":   "Found %s errors in the file. Showing the first %s:",
	"import.success":         "%s records imported successfully.",
	"import.preview_ok":      "The file is valid: %s records ready to import.",
}
