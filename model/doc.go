// Package model defines the LLM text-completion boundary used by the agent
// stages. Providers return a tagged Response instead of raising errors for
// degraded service: stages switch on FailureKind to decide between the model
// output and their deterministic rule-based fallbacks.
//
// Known limitation: provider adapters still have to classify SDK errors into
// failure kinds, which for some providers falls back to inspecting the error
// message (e.g. a message that merely mentions "quota" would be classified as
// quota exhaustion). The tag keeps that fragility inside the adapters.
package model
