// Package llm wraps the OpenAI-compatible chat completion endpoint used as
// the external classifier.
//
// The client is deliberately forgiving: every call carries a bounded timeout,
// throttling gets one retry, and callers are expected to treat any error as
// "classifier unavailable" rather than a failure of their own operation.
package llm
