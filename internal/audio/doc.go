// Package audio plays the optional chimes that accompany a splash being
// shown and closed. Sounds are decoded with beep (WAV, OGG and MP3) and
// cached until the file on disk changes.
package audio
