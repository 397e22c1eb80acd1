package ledger

import (
	"math/rand/v2"
	"strconv"
	"time"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newTransactionID generates a millisecond timestamp plus a 9-character
// base36 suffix. The timestamp keeps ids roughly sortable; the suffix makes
// collisions under rapid successive calls practically impossible. A re-roll
// guard covers the remaining odds. Callers must hold s.mu.
func (s *Store) newTransactionID() string {
	for {
		id := generateID()
		if !s.hasTransactionID(id) {
			return id
		}
	}
}

func (s *Store) newCategoryID() string {
	for {
		id := generateID()
		if !s.hasCategoryID(id) {
			return id
		}
	}
}

func generateID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + string(suffix)
}

func (s *Store) hasTransactionID(id string) bool {
	for _, t := range s.transactions {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) hasCategoryID(id string) bool {
	for _, c := range s.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
