// Command speechscope explores speech dataset manifests: corpus statistics,
// sortable/filterable utterance listings, and per-utterance waveform and
// spectrogram inspection.
package main
