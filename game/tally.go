// game/tally.go
package game

// Tally 统计一轮投票并返回获胜选项的下标
//
// The winner is the index with the highest count; ties resolve to the lowest
// tied index so results are reproducible. Votes outside [0, choiceCount) are
// ignored. An empty round (everyone disconnected before voting) falls back
// to index 0.
func Tally(votes map[string]int, choiceCount int) int {
	if choiceCount <= 0 {
		return 0
	}

	counts := make([]int, choiceCount)
	for _, idx := range votes {
		if idx >= 0 && idx < choiceCount {
			counts[idx]++
		}
	}

	winner := 0
	for i := 1; i < choiceCount; i++ {
		if counts[i] > counts[winner] {
			winner = i
		}
	}
	return winner
}
