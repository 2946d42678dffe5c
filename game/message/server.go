package message

import (
	"math/rand"
	"net/http"

	"github.com/jacobpatterson1549/mexican-train/server/log"
)

// AddSocketRequest is used by the lobby to ask the socket runner to add a socket.
type AddSocketRequest struct {
	http.ResponseWriter
	*http.Request
	// Result receives a message with the address of the added socket or a SocketError.
	Result chan<- Message
}

// sendDebugID generates an id to correlate the debug logs of sending a message.
var sendDebugID = rand.Int

// Send is a utility function for sending messages out on the channel.
// When debugging, it prints a message before and after the message is sent to help identify deadlocks.
func Send(m Message, out chan<- Message, debug bool, log log.Logger) {
	if debug {
		id := sendDebugID()
		log.Printf("[id: %v] sending message: %v", id, m)
		defer log.Printf("[id: %v] message sent", id)
	}
	out <- m
}
