// Package synth turns quest text into audio through a speech provider.
//
// The Synthesizer interface is what the sync orchestrator depends on; the
// ElevenLabs client is the production implementation and Recorder is an
// in-memory one for tests and dry runs.
package synth
