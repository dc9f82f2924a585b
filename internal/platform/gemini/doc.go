// Package gemini implements the advisor.Generator interface using Google's
// Gemini API. It renders per-resource-type FinOps prompts, makes a single
// generation call per resource, and parses the model's strict-JSON output
// into domain recommendations.
package gemini
