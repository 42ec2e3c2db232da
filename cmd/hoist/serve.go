package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/AlexandreBonaventure/nodehoist/internal/server"
)

// serveConfig holds the environment configuration for the live server.
type serveConfig struct {
	Port       string
	DebugLevel int
}

func loadServeConfig() *serveConfig {
	_ = godotenv.Load()

	debugLevel, err := strconv.Atoi(getEnv("NM_DEBUG_LEVEL", "0"))
	if err != nil {
		debugLevel = 0
	}

	return &serveConfig{
		Port:       getEnv("PORT", "8080"),
		DebugLevel: debugLevel,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// client represents one connected WebSocket client, able to run at most
// one hoist session at a time.
type client struct {
	conn    *websocket.Conn
	config  *serveConfig
	send    chan server.Message
	running bool
}

func newClient(conn *websocket.Conn, config *serveConfig) *client {
	return &client{
		conn:   conn,
		config: config,
		send:   make(chan server.Message, 256),
	}
}

func (c *client) SendMessage(msg server.Message) {
	select {
	case c.send <- msg:
	default:
		log.Println("Warning: message channel full, dropping message")
	}
}

func (c *client) SendLog(message, level string) {
	c.SendMessage(server.NewLogMessage(message, level))
}

func (c *client) SendProgress(percent int, stage, message string) {
	c.SendMessage(server.NewProgressMessage(percent, stage, message))
}

func (c *client) SendError(message string, err error) {
	c.SendMessage(server.NewErrorMessage(message, err))
}

func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("Error writing message: %v", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump() {
	defer c.conn.Close()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		switch msg.Type {
		case server.TypeHoist:
			c.handleHoist(msg)
		case server.TypePing:
			c.SendMessage(server.Message{Type: "pong"})
		default:
			c.SendError(fmt.Sprintf("Unknown message type: %s", msg.Type), nil)
		}
	}
}

func (c *client) handleHoist(msg server.Message) {
	if c.running {
		c.SendError("A hoist is already in progress on this connection", nil)
		return
	}

	payload, err := server.ParseHoistPayload(msg)
	if err != nil {
		c.SendError("Failed to parse hoist request", err)
		return
	}

	c.running = true
	defer func() { c.running = false }()

	session := server.NewSession(c, c.config.DebugLevel)
	if err := session.Run(payload); err != nil {
		c.SendError("Hoist failed", err)
	}
}

func serveWs(config *serveConfig, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	c := newClient(conn, config)
	go c.writePump()
	go c.readPump()
}

func runServeCommand(args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	port := flags.String("port", "", "Port to listen on (overrides PORT env var)")
	flags.Parse(args)

	config := loadServeConfig()
	if *port != "" {
		config.Port = *port
	}

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(config, w, r)
	})

	log.Printf("Server starting on port %s", config.Port)
	if err := http.ListenAndServe(":"+config.Port, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
