// Package audio plays raw PCM16 mono audio through the system output using
// oto. Build with the nocgo tag for platforms without an audio backend.
package audio
