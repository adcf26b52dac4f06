// Package audio decodes utterance audio and computes the per-utterance signal
// artifacts the inspector renders: a decimated waveform and a spectrogram.
//
// Decoding is a capability: anything that can turn a path-like reference into
// a mono float sample sequence plus sample rate satisfies Decoder. The bundled
// implementation reads WAV files. Feature extraction is deterministic: fixed
// parameters always produce the same arrays for the same audio. Failures are
// scoped to the single utterance being inspected.
package audio
