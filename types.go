package changeset

// NumberMode dictates how numbers are interpreted when decoding documents.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // Fast mode (with potential precision loss).
	NumberJSONNumber                   // Preserve json.Number.
)

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity
}

// DecodeOpt bundles decoding options for the document boundary.
type DecodeOpt struct {
	Strictness Strictness
	MaxDepth   int   // 0 means unlimited.
	MaxBytes   int64 // 0 means unlimited.
	FailFast   bool
	// Warnings receives non-fatal issues such as duplicate keys in Warn mode.
	Warnings func(Issue)
}
