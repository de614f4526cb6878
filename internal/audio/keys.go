// Package audio turns stop text into playable audio: synthesis via a
// TTS provider, storage in an HTTP blob store, cache-first by a
// deterministic key.
package audio

import "fmt"

type ItemType string

const (
	TypeNarration ItemType = "narration"
	TypeFact      ItemType = "fact"
)

// Key derives the storage key for one audio item. The identifier is the
// narration style for narrations and the fact id for facts. Keys are
// deterministic so regeneration always hits the same object.
func Key(stopID string, typ ItemType, identifier string) string {
	if typ == TypeNarration {
		return fmt.Sprintf("narrations/%s/%s.mp3", stopID, identifier)
	}
	return fmt.Sprintf("facts/%s/%s.mp3", stopID, identifier)
}
