package errors

const (
	CodeParse             = "PARSE_ERROR"
	CodeTimeFormat        = "TIME_FORMAT_ERROR"
	CodeIO                = "IO_ERROR"
	CodeRemoteFetch       = "REMOTE_FETCH_ERROR"
	CodeUnsupportedSchema = "UNSUPPORTED_SCHEMA"
	CodeInvalidCoordinate = "INVALID_COORDINATES"
	CodeRegionNotFound    = "REGION_NOT_FOUND"
	CodeCacheMiss         = "CACHE_MISS"
)

var (
	// ErrParse: input file is malformed or does not follow the expected structure.
	ErrParse = New(CodeParse, "Malformed input")

	// ErrTimeFormat: a timestamp is present but cannot be parsed.
	ErrTimeFormat = New(CodeTimeFormat, "Unparseable timestamp")

	// ErrIO: file or network access failed.
	ErrIO = New(CodeIO, "I/O operation failed")

	// ErrRemoteFetch: region catalogue unreachable or returned invalid data.
	ErrRemoteFetch = New(CodeRemoteFetch, "Remote fetch failed")

	ErrUnsupportedSchema = New(CodeUnsupportedSchema, "Unsupported document schema version")

	ErrInvalidCoordinates = New(CodeInvalidCoordinate, "Invalid coordinates provided")

	ErrRegionNotFound = New(CodeRegionNotFound, "Region not found")

	ErrCacheMiss = New(CodeCacheMiss, "No cached copy available")
)
