// Package core defines the shared data model for the finmesh pipeline: the
// workflow state record threaded through every stage, the status enum driving
// routing decisions, and the audit structures (messages, tool history, errors)
// that accumulate across a run.
package core
