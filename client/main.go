// client/main.go
//
// Interactive test client. Joins a room, prints every event the server
// pushes, and forwards stdin commands:
//
//	start         start the game (host only)
//	vote <index>  vote for a choice
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func send(c *websocket.Conn, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.WriteJSON(envelope{Event: event, Data: data})
}

func main() {
	addr := flag.String("addr", "localhost:5000", "server address")
	roomID := flag.String("room", "", "room code to join")
	name := flag.String("name", "Tester", "player name")
	playerID := flag.String("player", "", "existing player id (reconnect)")
	flag.Parse()

	if *roomID == "" {
		log.Fatal("-room is required")
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			var env envelope
			if err := c.ReadJSON(&env); err != nil {
				log.Printf("Read error: %v", err)
				return
			}
			log.Printf("<- %s: %s", env.Event, env.Data)
		}
	}()

	if err := send(c, "join-room", map[string]string{
		"roomId":     *roomID,
		"playerName": *name,
		"playerId":   *playerID,
	}); err != nil {
		log.Fatalf("Join failed: %v", err)
	}

	// Stdin loop
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				continue
			}
			switch fields[0] {
			case "start":
				if err := send(c, "start-game", map[string]string{"roomId": *roomID}); err != nil {
					log.Printf("Send failed: %v", err)
				}
			case "vote":
				if len(fields) < 2 {
					log.Println("usage: vote <index>")
					continue
				}
				idx, err := strconv.Atoi(fields[1])
				if err != nil {
					log.Println("usage: vote <index>")
					continue
				}
				if err := send(c, "vote", map[string]interface{}{
					"roomId":      *roomID,
					"choiceIndex": idx,
				}); err != nil {
					log.Printf("Send failed: %v", err)
				}
			default:
				log.Println("commands: start, vote <index>")
			}
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		log.Println("Interrupted, closing connection")
		c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}
