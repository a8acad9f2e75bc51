// Package audio plays sound cues for toasts. It uses the beep library to
// decode and play WAV, OGG, and MP3 files with volume control and a
// per-kind cue configuration.
package audio
