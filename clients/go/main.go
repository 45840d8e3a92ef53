// Interactive chat client for manual testing. Authenticates, joins a peer
// conversation, replays history, then sends stdin lines as messages.
//
// Usage: go run ./clients/go -url ws://localhost:5000/ws -user 1 -name Alice -peer 2
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/LeartBytyqi1/my-fit-companion/clients/go/fitchat"
)

func main() {
	url := flag.String("url", "ws://localhost:5000/ws", "chat WebSocket endpoint")
	user := flag.String("user", "", "user id")
	name := flag.String("name", "", "display name")
	peer := flag.String("peer", "", "peer user id")
	flag.Parse()

	if *user == "" || *peer == "" {
		fmt.Fprintln(os.Stderr, "usage: -user <id> -name <name> -peer <id> [-url ws://...]")
		os.Exit(1)
	}

	client, err := fitchat.Dial(*url, func(ev fitchat.Event) {
		printEvent(ev)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect failed:", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := client.Authenticate(*user, *name); err != nil {
		fmt.Fprintln(os.Stderr, "authenticate failed:", err)
		os.Exit(1)
	}
	if err := client.Join(*user, *peer, ""); err != nil {
		fmt.Fprintln(os.Stderr, "join failed:", err)
		os.Exit(1)
	}
	if err := client.GetHistory(*peer, 50, 0); err != nil {
		fmt.Fprintln(os.Stderr, "history request failed:", err)
	}

	fmt.Println("type messages, ctrl-d to quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := client.Send(*user, *peer, line); err != nil {
			fmt.Fprintln(os.Stderr, "send failed:", err)
			return
		}
	}
}

func printEvent(ev fitchat.Event) {
	switch ev.Name {
	case "message":
		var msg struct {
			SenderName string `json:"senderName"`
			SenderID   string `json:"senderId"`
			Content    string `json:"content"`
		}
		if json.Unmarshal(ev.Data, &msg) == nil {
			from := msg.SenderName
			if from == "" {
				from = msg.SenderID
			}
			fmt.Printf("[%s] %s\n", from, msg.Content)
		}
	case "history":
		var h struct {
			Messages []struct {
				SenderID string `json:"senderId"`
				Content  string `json:"content"`
			} `json:"messages"`
			HasMore bool `json:"hasMore"`
		}
		if json.Unmarshal(ev.Data, &h) == nil {
			for _, m := range h.Messages {
				fmt.Printf("  %s: %s\n", m.SenderID, m.Content)
			}
			if h.HasMore {
				fmt.Println("  (more history available)")
			}
		}
	case "typing":
		var t struct {
			Username string `json:"username"`
			IsTyping bool   `json:"isTyping"`
		}
		if json.Unmarshal(ev.Data, &t) == nil && t.IsTyping {
			fmt.Printf("%s is typing...\n", t.Username)
		}
	case "error":
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(ev.Data, &e) == nil {
			fmt.Fprintln(os.Stderr, "server error:", e.Message)
		}
	default:
		fmt.Printf("<%s> %s\n", ev.Name, string(ev.Data))
	}
}
