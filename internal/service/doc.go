// Package service contains the application services that orchestrate
// domain logic across stores, the task registry and the LLM generator.
package service
