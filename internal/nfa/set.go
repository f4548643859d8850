package nfa

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/dchest/siphash"
	"golang.org/x/exp/slices"
)

// StateSet is a sorted, duplicate-free list of state IDs. It is the canonical
// form of a set of states: two sets with the same members are equal element
// for element and have the same Fingerprint.
type StateSet []StateID

// NewStateSet returns the canonical set holding ids.
func NewStateSet(ids ...StateID) StateSet {
	out := slices.Clone(ids)
	slices.Sort(out)
	return StateSet(slices.Compact(out))
}

func (s StateSet) Contains(id StateID) bool {
	_, ok := slices.BinarySearch(s, id)
	return ok
}

func (s StateSet) Equal(o StateSet) bool { return slices.Equal(s, o) }

// fixed keys; fingerprints only need to be stable within a process
const (
	sipK0 = 0x6c65786175746f30
	sipK1 = 0x7374617465736574
)

// Fingerprint hashes the members of s. Equal sets have equal fingerprints;
// callers that key on it must still confirm with Equal.
func (s StateSet) Fingerprint() uint64 {
	buf := make([]byte, 8*len(s))
	for i, id := range s {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(id))
	}
	return siphash.Hash(sipK0, sipK1, buf)
}

func (s StateSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, id := range s {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(id)))
	}
	sb.WriteByte('}')
	return sb.String()
}
