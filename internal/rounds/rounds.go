// Package rounds resolves raw per-player point entries into the complete
// points map for one round, optionally inferring a single omitted player's
// value so the round sums to zero.
package rounds

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RoundError is a custom error type for round resolution errors
type RoundError string

// Error implements the error interface
func (e RoundError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNoSlotToAutoCalculate RoundError = "all players have entries, nothing to auto-calculate"
	ErrTooManyMissingEntries RoundError = "more than one player is missing an entry"
	ErrIncompleteEntries     RoundError = "every selected player needs an entry"
	ErrResolvedSetMismatch   RoundError = "resolved entries do not match the selected players"
)

// NonNumericEntryError reports an entry that could not be parsed as a number
type NonNumericEntryError struct {
	// PlayerID is the player whose entry failed to parse
	PlayerID string

	// Value is the raw entered value
	Value string
}

// Error implements the error interface
func (e *NonNumericEntryError) Error() string {
	return fmt.Sprintf("entry %q for player %s is not a number", e.Value, e.PlayerID)
}

// ResolvePoints turns the raw entries for a round into the final points map.
//
// Entries are keyed by player ID; a missing or blank entry means the player
// has no value yet. With autoCalculate enabled exactly one selected player
// must be omitted, and that player's value becomes the negation of the sum
// of the entered values. With autoCalculate disabled every selected player
// must have an entry and the values are taken literally.
//
// The returned map's key set always equals selectedPlayers exactly.
func ResolvePoints(selectedPlayers []string, entries map[string]string, autoCalculate bool) (map[string]float64, error) {
	resolved := make(map[string]float64, len(selectedPlayers))

	var omitted []string
	var enteredSum float64

	for _, playerID := range selectedPlayers {
		raw, ok := entries[playerID]
		value := strings.TrimSpace(raw)
		if !ok || value == "" {
			omitted = append(omitted, playerID)
			continue
		}

		points, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(points) || math.IsInf(points, 0) {
			return nil, &NonNumericEntryError{
				PlayerID: playerID,
				Value:    raw,
			}
		}

		resolved[playerID] = points
		enteredSum += points
	}

	if autoCalculate {
		switch len(omitted) {
		case 0:
			return nil, ErrNoSlotToAutoCalculate
		case 1:
			resolved[omitted[0]] = -enteredSum
		default:
			return nil, ErrTooManyMissingEntries
		}
	} else if len(omitted) > 0 {
		return nil, ErrIncompleteEntries
	}

	// Should be unreachable given the checks above, but the round's player
	// selection and its points map must never drift apart.
	if len(resolved) != len(selectedPlayers) {
		return nil, ErrResolvedSetMismatch
	}
	for _, playerID := range selectedPlayers {
		if _, ok := resolved[playerID]; !ok {
			return nil, ErrResolvedSetMismatch
		}
	}

	return resolved, nil
}
