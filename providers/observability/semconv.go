package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across the invoker, its middleware and the backends.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the model provider (e.g., "Ollama", "OpenAI")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g., "mistral:7b-instruct")
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseFormat is the response format requested from the backend
	// ("native", "json" or "text")
	AttrLLMResponseFormat = "llm.response_format"
)

// --- Token Usage Attributes ---

const (
	// AttrLLMTokensPrompt is the number of prompt tokens
	AttrLLMTokensPrompt = "llm.tokens.prompt" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensCompletion is the number of completion tokens
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensTotal is the total number of tokens
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Invocation Attributes ---

const (
	// AttrInvocationID is the unique identifier of one structured invocation
	AttrInvocationID = "invoke.id"

	// AttrAgent is the agent label, used to select a per-agent model and to
	// address progress updates
	AttrAgent = "invoke.agent"

	// AttrSchema is the name of the requested output schema
	AttrSchema = "invoke.schema"

	// AttrAttempt is the 1-based attempt number
	AttrAttempt = "invoke.attempt"

	// AttrMaxRetries is the attempt budget of the invocation
	AttrMaxRetries = "invoke.max_retries"

	// AttrOutcome is how the invocation ended: "success", "factory" or "synthesized"
	AttrOutcome = "invoke.outcome"

	// AttrStrategy is the extraction strategy that produced the payload
	AttrStrategy = "invoke.strategy"

	// AttrDefaultedFields is the number of fields filled with defaults
	AttrDefaultedFields = "invoke.defaulted_fields"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanInvoke covers one structured invocation, all attempts included
	SpanInvoke = "invoke.structured"

	// SpanAttempt covers a single attempt
	SpanAttempt = "invoke.attempt"

	// SpanLLMRequest is the span name for backend requests
	SpanLLMRequest = "llm.request"
)

// --- Event Names ---

const (
	// EventAttemptFailed marks a failed attempt
	EventAttemptFailed = "invoke.attempt.failed"

	// EventFallback marks the switch to the fallback value
	EventFallback = "invoke.fallback"

	// EventHTTPRequestPrepared marks a serialized HTTP request body
	EventHTTPRequestPrepared = "http.request.prepared"

	// EventHTTPResponseReceived marks a received HTTP response
	EventHTTPResponseReceived = "http.response.received"

	// EventHTTPRequestError marks a transport error
	EventHTTPRequestError = "http.request.error"
)

// --- Metric Names ---

const (
	// MetricInvocations counts finished invocations, labelled by outcome
	MetricInvocations = "llmcall.invocations"

	// MetricAttempts counts attempts, labelled by status
	MetricAttempts = "llmcall.attempts"

	// MetricInvocationDuration is the histogram of invocation wall time in seconds
	MetricInvocationDuration = "llmcall.invocation.duration"

	// MetricTokensTotal counts tokens reported by backends
	MetricTokensTotal = "llmcall.tokens.total"
)
