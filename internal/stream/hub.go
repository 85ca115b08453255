package stream

import (
	"context"
	"strings"
	"sync"

	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/logging"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix  = "running:"
	channelSuffix  = ":broadcast"
	channelPattern = channelPrefix + "*" + channelSuffix
	sendBuffer     = 64
)

// Hub fans session events out to websocket watchers. With redis every
// broadcast goes through pub/sub so watchers on other instances see it too.
type Hub struct {
	redis   *redis.Client
	pubsub  *redis.PubSub
	logger  *zap.Logger
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	SessionID string
	Send      chan []byte
}

func NewHub(redisClient *redis.Client, logger *zap.Logger) *Hub {
	h := &Hub{
		logger:  logging.OrNop(logger),
		clients: map[string]map[*Client]struct{}{},
	}
	if redisClient == nil {
		return h
	}

	ctx := context.Background()
	pubsub := redisClient.PSubscribe(ctx, channelPattern)
	if _, err := pubsub.Receive(ctx); err != nil {
		h.logger.Warn("stream subscribe failed, delivering locally", zap.Error(err))
		_ = pubsub.Close()
		return h
	}
	h.redis = redisClient
	h.pubsub = pubsub
	go h.forward(pubsub.Channel())
	return h
}

func (h *Hub) Register(sessionID string) *Client {
	client := &Client{
		SessionID: sessionID,
		Send:      make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = map[*Client]struct{}{}
	}
	h.clients[sessionID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sessionClients, ok := h.clients[client.SessionID]; ok {
		if _, registered := sessionClients[client]; !registered {
			return
		}
		delete(sessionClients, client)
		if len(sessionClients) == 0 {
			delete(h.clients, client.SessionID)
		}
		close(client.Send)
	}
}

// Broadcast never blocks the caller: slow watchers drop messages.
func (h *Hub) Broadcast(sessionID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(sessionID), payload).Err()
		if err == nil {
			return
		}
		h.logger.Warn("stream publish failed, delivering locally",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
	h.deliver(sessionID, payload)
}

// Close stops the redis subscription. Registered clients stay open.
func (h *Hub) Close() error {
	if h.pubsub == nil {
		return nil
	}
	return h.pubsub.Close()
}

func (h *Hub) deliver(sessionID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) forward(messages <-chan *redis.Message) {
	for msg := range messages {
		sessionID := sessionIDFromChannel(msg.Channel)
		if sessionID == "" {
			continue
		}
		h.deliver(sessionID, []byte(msg.Payload))
	}
}

func redisChannel(sessionID string) string {
	return channelPrefix + sessionID + channelSuffix
}

func sessionIDFromChannel(ch string) string {
	if len(ch) <= len(channelPrefix)+len(channelSuffix) ||
		!strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
