package game

import (
	"testing"
)

func TestTally_StrictMajority(t *testing.T) {
	// Three voters picking indices 0, 0, 1: index 0 wins with two votes.
	votes := map[string]int{
		"player1": 0,
		"player2": 0,
		"player3": 1,
	}

	winner := Tally(votes, 3)
	if winner != 0 {
		t.Errorf("Expected winner index 0, got %d", winner)
	}
}

func TestTally_TieBreaksToLowestIndex(t *testing.T) {
	votes := map[string]int{
		"player1": 1,
		"player2": 0,
	}

	// Repeat to make sure map iteration order cannot leak into the result.
	for i := 0; i < 100; i++ {
		if winner := Tally(votes, 2); winner != 0 {
			t.Fatalf("Tie should resolve to index 0, got %d on run %d", winner, i)
		}
	}
}

func TestTally_EmptyVotesFallsBackToZero(t *testing.T) {
	winner := Tally(map[string]int{}, 3)
	if winner != 0 {
		t.Errorf("Empty vote round should resolve to index 0, got %d", winner)
	}
}

func TestTally_IgnoresOutOfRangeVotes(t *testing.T) {
	votes := map[string]int{
		"player1": 7,
		"player2": -1,
		"player3": 2,
	}

	winner := Tally(votes, 3)
	if winner != 2 {
		t.Errorf("Expected winner index 2, got %d", winner)
	}
}

func TestTally_NoChoices(t *testing.T) {
	if winner := Tally(map[string]int{"player1": 0}, 0); winner != 0 {
		t.Errorf("Expected 0 with no choices, got %d", winner)
	}
}
