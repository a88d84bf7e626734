package constants

// These values will be injected at build time, DO NOT EDIT.

// BackendVersion 当前后端版本号
var BackendVersion = "1.2.0"

// LastCommit 最后commit id
var LastCommit = "000000"

const (
	// EsHeaderPrefix is the prefix of custom request/response headers.
	EsHeaderPrefix = "X-Es-"
	// CorrelationHeader carries the request correlation ID.
	CorrelationHeader = EsHeaderPrefix + "Correlation-Id"
)

// Session keys
const (
	SessionUserID = "user_id"
)
