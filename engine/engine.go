// engine/engine.go
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/Robino0aashu/SagaForge/broadcast"
	"github.com/Robino0aashu/SagaForge/game"
	"github.com/Robino0aashu/SagaForge/monitor"
	"github.com/Robino0aashu/SagaForge/narrative"
	"github.com/Robino0aashu/SagaForge/store"
	"github.com/Robino0aashu/SagaForge/timer"
)

const (
	storeOpTimeout   = 5 * time.Second
	actorIdleTimeout = 10 * time.Minute
)

// Archiver persists a completed story. Failures are logged, never fatal.
type Archiver interface {
	SaveCompletedStory(ctx context.Context, room *game.Room) error
}

// Config holds the round-progression knobs.
type Config struct {
	RoomTTL             time.Duration
	VotingTimeout       time.Duration
	RoundDelay          time.Duration
	GeneratorTimeout    time.Duration
	ActorIdleTimeout    time.Duration
	EnforceVoteTimeout  bool
	AllowDuplicateNames bool
}

// Engine 是房间状态机的唯一入口
//
// Every transition for a room id is funneled through that room's actor
// goroutine, so the read-modify-write cycle against the room store never
// interleaves with another event for the same room. Different rooms run
// fully in parallel.
type Engine struct {
	store       store.RoomStore
	broadcaster broadcast.Broadcaster
	generator   narrative.Generator
	scheduler   *timer.Scheduler
	archiver    Archiver
	monitor     *monitor.Monitor
	cfg         Config

	actors   map[string]*actor
	mutex    sync.Mutex
	shutdown chan struct{}
}

// actor 是单个房间的串行处理点
type actor struct {
	roomID  string
	mailbox chan func(*actor)
	done    chan struct{}

	// Pending timer ids, owned exclusively by the actor goroutine.
	voteTimeoutID int64
	roundDelayID  int64
}

func NewEngine(st store.RoomStore, b broadcast.Broadcaster, gen narrative.Generator,
	sched *timer.Scheduler, archiver Archiver, mon *monitor.Monitor, cfg Config) *Engine {
	if cfg.RoomTTL <= 0 {
		cfg.RoomTTL = 24 * time.Hour
	}
	if cfg.GeneratorTimeout <= 0 {
		cfg.GeneratorTimeout = 10 * time.Second
	}
	if cfg.ActorIdleTimeout <= 0 {
		cfg.ActorIdleTimeout = actorIdleTimeout
	}
	return &Engine{
		store:       st,
		broadcaster: b,
		generator:   gen,
		scheduler:   sched,
		archiver:    archiver,
		monitor:     mon,
		cfg:         cfg,
		actors:      make(map[string]*actor),
		shutdown:    make(chan struct{}),
	}
}

// JoinReply 是加入成功后的应答
type JoinReply struct {
	PlayerID string
	View     game.View
}

// Join handles both first joins and reconnects, per the playerID decision
// table in game.ResolveJoin.
func (e *Engine) Join(ctx context.Context, roomID, playerName, playerID, sessionID string) (JoinReply, error) {
	type result struct {
		reply JoinReply
		err   error
	}
	ch := make(chan result, 1)

	e.post(roomID, func(a *actor) {
		reply, err := e.handleJoin(a, playerName, playerID, sessionID)
		ch <- result{reply: reply, err: err}
	})

	select {
	case r := <-ch:
		return r.reply, r.err
	case <-ctx.Done():
		return JoinReply{}, ctx.Err()
	}
}

// Start begins the game. Authorization is by the resolved player, not the
// physical connection, so a rejoined host keeps start authority.
func (e *Engine) Start(ctx context.Context, roomID, sessionID string) error {
	ch := make(chan error, 1)
	e.post(roomID, func(a *actor) {
		ch <- e.handleStart(a, sessionID)
	})

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Vote records or overwrites the player's vote for the open round and
// closes the round once every connected player has voted.
func (e *Engine) Vote(ctx context.Context, roomID, sessionID string, choiceIndex int) error {
	ch := make(chan error, 1)
	e.post(roomID, func(a *actor) {
		ch <- e.handleVote(a, sessionID, choiceIndex)
	})

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Disconnect marks the owning player offline, reassigns the host if needed
// and re-evaluates round closure with the shrunk denominator.
func (e *Engine) Disconnect(roomID, sessionID string) {
	e.post(roomID, func(a *actor) {
		e.handleDisconnect(a, sessionID)
	})
}

// ActiveRooms 返回当前有事件处理器在运行的房间数
func (e *Engine) ActiveRooms() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return len(e.actors)
}

func (e *Engine) Stop() {
	close(e.shutdown)
}

// post enqueues fn on the room's actor, spawning it if needed. The send into
// the mailbox happens under e.mutex, the same lock the idle evictor holds
// when it checks for an empty mailbox: an enqueue therefore cannot land in a
// mailbox that eviction has already judged empty, which would strand the
// event on a dead actor. A full mailbox means the actor is alive and
// draining; back off briefly and retry.
func (e *Engine) post(roomID string, fn func(*actor)) {
	for {
		select {
		case <-e.shutdown:
			return
		default:
		}

		e.mutex.Lock()
		a, exists := e.actors[roomID]
		if !exists {
			a = &actor{
				roomID:  roomID,
				mailbox: make(chan func(*actor), 64),
				done:    make(chan struct{}),
			}
			e.actors[roomID] = a
			go e.runActor(a)
			if e.monitor != nil {
				e.monitor.SetActiveRooms(len(e.actors))
			}
		}
		select {
		case a.mailbox <- fn:
			e.mutex.Unlock()
			return
		default:
		}
		e.mutex.Unlock()

		select {
		case <-a.done:
			// Actor went away while the mailbox was full; retry the lookup.
		case <-e.shutdown:
			return
		case <-time.After(time.Millisecond):
		}
	}
}

func (e *Engine) runActor(a *actor) {
	idle := time.NewTimer(e.cfg.ActorIdleTimeout)
	defer idle.Stop()

	for {
		select {
		case fn := <-a.mailbox:
			fn(a)
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(e.cfg.ActorIdleTimeout)

		case <-idle.C:
			// Safe against concurrent posts: enqueues hold e.mutex too, so
			// the emptiness check and the teardown are atomic to them.
			e.mutex.Lock()
			if len(a.mailbox) == 0 {
				if cur, ok := e.actors[a.roomID]; ok && cur == a {
					delete(e.actors, a.roomID)
				}
				close(a.done)
				if e.monitor != nil {
					e.monitor.SetActiveRooms(len(e.actors))
				}
				e.mutex.Unlock()
				return
			}
			e.mutex.Unlock()
			idle.Reset(e.cfg.ActorIdleTimeout)

		case <-e.shutdown:
			e.mutex.Lock()
			if cur, ok := e.actors[a.roomID]; ok && cur == a {
				delete(e.actors, a.roomID)
			}
			close(a.done)
			e.mutex.Unlock()
			return
		}
	}
}

func (e *Engine) loadRoom(roomID string) (*game.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeOpTimeout)
	defer cancel()
	return e.store.Get(ctx, roomID)
}

// saveRoom writes the snapshot back with a refreshed TTL. A failed write is
// fatal for the requesting action: the computed snapshot is discarded, never
// retried, because retrying without a re-read reintroduces the lost-update
// race.
func (e *Engine) saveRoom(room *game.Room) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeOpTimeout)
	defer cancel()
	return e.store.Put(ctx, room, e.cfg.RoomTTL)
}
