// Package gateway is the client-side adapter translating high-level analysis
// intents (AI-likelihood checks, tutor chat, upload-and-score, structured
// analysis) into HTTP calls against one analysis backend base URL.
//
// The gateway builds the request payload, performs exactly one network call
// and decodes the JSON response. It never retries, imposes no timeout of its
// own (use the context or a custom http.Client) and does not validate model
// output against caller-declared schemas; callers must defensively check for
// missing optional fields.
package gateway
