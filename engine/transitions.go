// engine/transitions.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Robino0aashu/SagaForge/game"
	"github.com/Robino0aashu/SagaForge/logger"
	"github.com/Robino0aashu/SagaForge/narrative"
	"github.com/Robino0aashu/SagaForge/network"
)

// ErrAlreadyStarted is returned when the host tries to start a room that
// has left the waiting state.
var ErrAlreadyStarted = errors.New("game already started")

// votingStartedPayload announces a voting round. TimeLimit is advisory for
// client countdowns; the server only enforces it when configured to.
type votingStartedPayload struct {
	Choices      []string `json:"choices"`
	TimeLimit    int      `json:"timeLimit"`
	CurrentRound int      `json:"currentRound"`
	TotalRounds  int      `json:"totalRounds"`
}

type voteRecordedPayload struct {
	ChoiceIndex int `json:"choiceIndex"`
}

func (e *Engine) handleJoin(a *actor, playerName, playerID, sessionID string) (JoinReply, error) {
	room, err := e.loadRoom(a.roomID)
	if err != nil {
		return JoinReply{}, err
	}

	result, err := game.ResolveJoin(room, playerName, playerID, sessionID, e.cfg.AllowDuplicateNames)
	if err != nil {
		return JoinReply{}, err
	}

	if err := e.saveRoom(room); err != nil {
		return JoinReply{}, err
	}

	view := room.View()
	e.broadcaster.ToRoom(a.roomID, network.EventRoomUpdated, view)

	if result.Kind == game.JoinReconnect {
		logger.Log.Infof("Player %s re-joined room %s", result.Player.Name, a.roomID)
	} else {
		logger.Log.Infof("New player %s joined room %s", result.Player.Name, a.roomID)
	}

	return JoinReply{PlayerID: result.Player.ID, View: view}, nil
}

func (e *Engine) handleStart(a *actor, sessionID string) error {
	room, err := e.loadRoom(a.roomID)
	if err != nil {
		return err
	}

	player := room.FindPlayerBySession(sessionID)
	if player == nil {
		return game.ErrPlayerNotFound
	}
	if !player.IsHost {
		return game.ErrNotHost
	}
	if room.Status != game.StatusWaiting {
		return ErrAlreadyStarted
	}

	room.Status = game.StatusVoting
	room.CurrentRound = 0
	room.Votes = make(map[string]int)
	room.AppendEntry(game.EntryPrompt, room.StoryPrompt)
	room.AppendEntry(game.EntryNarrative, "The adventure begins... "+room.StoryPrompt)

	choices, err := e.generateChoices(room)
	if err != nil {
		e.logGeneratorFailure(a.roomID, "initial choices", err)
		choices = narrative.StarterChoices()
	}
	room.CurrentChoices = choices

	if err := e.saveRoom(room); err != nil {
		return err
	}

	view := room.View()
	e.broadcaster.ToRoom(a.roomID, network.EventGameStarted, view)
	e.broadcastVotingStarted(a, room)
	e.scheduleVoteTimeout(a, room.CurrentRound, e.cfg.VotingTimeout)

	logger.Log.Infof("Game started in room %s by %s (%d rounds)", a.roomID, player.Name, room.NumberOfRounds)
	return nil
}

func (e *Engine) handleVote(a *actor, sessionID string, choiceIndex int) error {
	room, err := e.loadRoom(a.roomID)
	if err != nil {
		return err
	}

	player := room.FindPlayerBySession(sessionID)
	if player == nil {
		return game.ErrPlayerNotFound
	}
	if room.Status != game.StatusVoting {
		return game.ErrNotVoting
	}
	if choiceIndex < 0 || choiceIndex >= len(room.CurrentChoices) {
		return fmt.Errorf("choice index %d out of range", choiceIndex)
	}

	// Overwrites any earlier vote from the same player this round.
	room.Votes[player.ID] = choiceIndex

	if err := e.saveRoom(room); err != nil {
		return err
	}

	if e.monitor != nil {
		e.monitor.IncVotesRecorded()
	}

	// Ack goes out before any round-closure broadcast this vote triggers.
	e.broadcaster.ToSession(sessionID, network.EventVoteRecorded, voteRecordedPayload{ChoiceIndex: choiceIndex})

	if room.AllConnectedVoted() {
		e.advanceRound(a, room)
	}
	return nil
}

func (e *Engine) handleDisconnect(a *actor, sessionID string) {
	room, err := e.loadRoom(a.roomID)
	if err != nil {
		// Room already expired or never existed; nothing to unwind.
		return
	}

	player := room.FindPlayerBySession(sessionID)
	if player == nil {
		return
	}

	// The player record stays: identity and vote history must survive for
	// reconnection. Only the connection reference is dropped.
	player.SessionID = ""

	if player.IsHost {
		if promoted := game.PromoteHost(room, player); promoted != nil {
			logger.Log.Infof("Host of room %s disconnected, promoted %s", a.roomID, promoted.Name)
		}
	}

	if err := e.saveRoom(room); err != nil {
		logger.Log.Errorf("Failed to persist disconnect for room %s: %v", a.roomID, err)
		return
	}

	e.broadcaster.ToRoom(a.roomID, network.EventRoomUpdated, room.View())
	logger.Log.Infof("Player %s disconnected from room %s", player.Name, a.roomID)

	// Removing a connected voter from the denominator can close the round.
	if room.Status == game.StatusVoting && room.AllConnectedVoted() {
		e.advanceRound(a, room)
	}
}

// advanceRound closes the open voting round: tallies, appends the winning
// choice, and either completes the game or sets up the next round. The
// caller has already persisted the pre-close snapshot; this persists the
// post-close one. Generator failures are recovered with fallback content and
// never abort the round.
func (e *Engine) advanceRound(a *actor, room *game.Room) {
	e.cancelRoundTimers(a)

	winner := game.Tally(room.Votes, len(room.CurrentChoices))
	chosen := ""
	if winner < len(room.CurrentChoices) {
		chosen = room.CurrentChoices[winner]
	}

	room.AppendEntry(game.EntryChoice, chosen)
	room.CurrentRound++
	room.Votes = make(map[string]int)

	// The closed round is persisted before anyone hears about it; a write
	// failure here must not leave clients believing in a closure that never
	// took effect.
	if err := e.saveRoom(room); err != nil {
		logger.Log.Errorf("Failed to persist round closure for room %s: %v", a.roomID, err)
		return
	}

	// The tally is closed; tell clients right away, before the (slow)
	// narrative generation runs.
	e.broadcaster.ToRoom(a.roomID, network.EventVotingEnded, room.View())

	if e.monitor != nil {
		e.monitor.IncRoundsAdvanced()
	}

	if room.CurrentRound >= room.NumberOfRounds {
		e.completeGame(a, room)
		return
	}

	part, err := e.generateStoryPart(room, chosen)
	if err != nil {
		e.logGeneratorFailure(a.roomID, "story part", err)
		part = narrative.FallbackStoryPart(chosen)
	}
	room.AppendEntry(game.EntryNarrative, part)

	choices, err := e.generateChoices(room)
	if err != nil {
		e.logGeneratorFailure(a.roomID, "choices", err)
		choices = narrative.FallbackChoices()
	}
	room.CurrentChoices = choices

	if err := e.saveRoom(room); err != nil {
		logger.Log.Errorf("Failed to persist round %d of room %s: %v", room.CurrentRound, a.roomID, err)
		return
	}

	e.broadcaster.ToRoom(a.roomID, network.EventRoomUpdated, room.View())

	// The next round's choices go out after a short breather so clients can
	// show the closed tally first. The round guard makes a stale task inert.
	round := room.CurrentRound
	a.roundDelayID = e.scheduler.Schedule(e.cfg.RoundDelay, func() {
		e.post(a.roomID, func(a *actor) {
			e.announceRound(a, round)
		})
	})

	logger.Log.Infof("Room %s advanced to round %d/%d (winning choice %d)",
		a.roomID, room.CurrentRound, room.NumberOfRounds, winner)
}

func (e *Engine) completeGame(a *actor, room *game.Room) {
	conclusion, err := e.generateConclusion(room)
	if err != nil {
		e.logGeneratorFailure(a.roomID, "conclusion", err)
		conclusion = narrative.FallbackConclusion()
	}
	room.AppendEntry(game.EntryConclusion, conclusion)

	final, err := e.generateConsolidated(room)
	if err != nil {
		e.logGeneratorFailure(a.roomID, "consolidation", err)
		final = narrative.FallbackConsolidate(room.Story)
	}
	room.FinalStory = final
	room.Status = game.StatusCompleted
	room.CurrentChoices = nil

	if err := e.saveRoom(room); err != nil {
		logger.Log.Errorf("Failed to persist completion of room %s: %v", a.roomID, err)
		return
	}

	e.broadcaster.ToRoom(a.roomID, network.EventGameCompleted, room.View())

	if e.monitor != nil {
		e.monitor.IncRoomsCompleted()
	}

	if e.archiver != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeOpTimeout)
		defer cancel()
		if err := e.archiver.SaveCompletedStory(ctx, room); err != nil {
			logger.Log.Errorf("Failed to archive story for room %s: %v", a.roomID, err)
		}
	}

	logger.Log.Infof("Room %s completed after %d rounds", a.roomID, room.CurrentRound)
}

// announceRound runs on the actor after the round delay. It reloads the room
// and broadcasts voting-started only if the room is still voting on the same
// round the task was scheduled for.
func (e *Engine) announceRound(a *actor, round int) {
	room, err := e.loadRoom(a.roomID)
	if err != nil {
		return
	}
	if room.Status != game.StatusVoting || room.CurrentRound != round {
		return
	}

	e.broadcastVotingStarted(a, room)
	e.scheduleVoteTimeout(a, round, e.cfg.VotingTimeout)
}

func (e *Engine) broadcastVotingStarted(a *actor, room *game.Room) {
	e.broadcaster.ToRoom(a.roomID, network.EventVotingStarted, votingStartedPayload{
		Choices:      room.CurrentChoices,
		TimeLimit:    int(e.cfg.VotingTimeout.Seconds()),
		CurrentRound: room.CurrentRound,
		TotalRounds:  room.NumberOfRounds,
	})
}

// scheduleVoteTimeout arms the optional server-side force close. A timer is
// bound to the round it was armed for; by the time it reaches the actor a
// later round or a natural close makes it a no-op.
func (e *Engine) scheduleVoteTimeout(a *actor, round int, timeout time.Duration) {
	if !e.cfg.EnforceVoteTimeout || timeout <= 0 {
		return
	}
	a.voteTimeoutID = e.scheduler.Schedule(timeout, func() {
		e.post(a.roomID, func(a *actor) {
			e.handleVoteTimeout(a, round)
		})
	})
}

func (e *Engine) handleVoteTimeout(a *actor, round int) {
	room, err := e.loadRoom(a.roomID)
	if err != nil {
		return
	}
	if room.Status != game.StatusVoting || room.CurrentRound != round {
		return
	}

	logger.Log.Infof("Voting timeout reached in room %s round %d, forcing close", a.roomID, round)
	e.advanceRound(a, room)
}

func (e *Engine) cancelRoundTimers(a *actor) {
	if a.voteTimeoutID != 0 {
		e.scheduler.Cancel(a.voteTimeoutID)
		a.voteTimeoutID = 0
	}
	if a.roundDelayID != 0 {
		e.scheduler.Cancel(a.roundDelayID)
		a.roundDelayID = 0
	}
}

func (e *Engine) logGeneratorFailure(roomID, what string, err error) {
	logger.Log.Warnf("Generator failed for room %s (%s), using fallback: %v", roomID, what, err)
	if e.monitor != nil {
		e.monitor.IncGeneratorFailures()
	}
}

func (e *Engine) generatorContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.cfg.GeneratorTimeout)
}

func (e *Engine) generateChoices(room *game.Room) ([]string, error) {
	ctx, cancel := e.generatorContext()
	defer cancel()
	return e.observeGeneratorList(func() ([]string, error) {
		return e.generator.Choices(ctx, room.Story)
	})
}

func (e *Engine) generateStoryPart(room *game.Room, chosen string) (string, error) {
	ctx, cancel := e.generatorContext()
	defer cancel()
	return e.observeGenerator(func() (string, error) {
		return e.generator.StoryPart(ctx, room.Story, chosen)
	})
}

func (e *Engine) generateConclusion(room *game.Room) (string, error) {
	ctx, cancel := e.generatorContext()
	defer cancel()
	return e.observeGenerator(func() (string, error) {
		return e.generator.Conclusion(ctx, room.Story)
	})
}

func (e *Engine) generateConsolidated(room *game.Room) (string, error) {
	ctx, cancel := e.generatorContext()
	defer cancel()
	return e.observeGenerator(func() (string, error) {
		return e.generator.Consolidate(ctx, room.Story)
	})
}

func (e *Engine) observeGenerator(fn func() (string, error)) (string, error) {
	start := time.Now()
	out, err := fn()
	if e.monitor != nil {
		e.monitor.ObserveGeneratorLatency(time.Since(start))
	}
	return out, err
}

func (e *Engine) observeGeneratorList(fn func() ([]string, error)) ([]string, error) {
	start := time.Now()
	out, err := fn()
	if e.monitor != nil {
		e.monitor.ObserveGeneratorLatency(time.Since(start))
	}
	return out, err
}
