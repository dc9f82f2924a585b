// Package advisor provides interfaces and helpers for producing cost
// optimization recommendations for cloud resources. It abstracts the details
// of LLM API integration (Gemini), allowing the application to analyze
// resources without coupling to a specific external service.
package advisor
