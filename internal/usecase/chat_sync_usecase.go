package usecase

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/domain/repository"
	"reviewdesk/internal/infrastructure/realtime"
	"reviewdesk/pkg/errors"
	"reviewdesk/pkg/logger"
)

// Channel is the outbound side of the real-time stream.
type Channel interface {
	Emit(event string, payload interface{}) error
}

// Notifier pushes console state changes to connected UI tabs.
type Notifier interface {
	Broadcast(event string, data interface{})
}

// UI notification events.
const (
	NotifyConversationList    = "conversation_list"
	NotifyConversationUpdated = "conversation_updated"
	NotifyMessageReceived     = "message_received"
	NotifyConnectivity        = "connectivity"
)

// ChatSyncUseCase owns the recency-ordered conversation list and the
// active message thread, reconciling bulk fetches, inbound channel
// events and optimistic local sends. All state lives behind one mutex;
// network calls happen outside it, so events arriving while a fetch is
// in flight interleave the same way UI callbacks would.
type ChatSyncUseCase struct {
	convRepo     repository.ConversationRepository
	customerRepo repository.CustomerRepository
	channel      Channel
	notifier     Notifier
	reviewerID   string

	mu            sync.Mutex
	conversations []*entity.Conversation
	activeID      string
	messages      []*entity.Message
	selectSeq     uint64
	fetching      map[string]bool
	pendingEchoes map[string]bool
}

func NewChatSyncUseCase(
	convRepo repository.ConversationRepository,
	customerRepo repository.CustomerRepository,
	channel Channel,
	notifier Notifier,
	reviewerID string,
) *ChatSyncUseCase {
	return &ChatSyncUseCase{
		convRepo:      convRepo,
		customerRepo:  customerRepo,
		channel:       channel,
		notifier:      notifier,
		reviewerID:    reviewerID,
		fetching:      make(map[string]bool),
		pendingEchoes: make(map[string]bool),
	}
}

// LoadConversations replaces the local list with the backend's. On
// failure the prior list is left untouched.
func (uc *ChatSyncUseCase) LoadConversations(ctx context.Context) ([]*entity.Conversation, error) {
	conversations, err := uc.convRepo.List(ctx)
	if err != nil {
		logger.Error("Failed to load conversations: %v", err)
		return nil, err
	}

	uc.mu.Lock()
	uc.conversations = conversations
	uc.sortConversationsLocked()
	// Echo correlation does not survive a reload; an echo arriving
	// afterwards is handled as a regular inbound message. This bounds
	// the map when the server never echoes a send.
	uc.pendingEchoes = make(map[string]bool)
	snapshot := uc.conversationsSnapshotLocked()
	uc.mu.Unlock()

	uc.notifier.Broadcast(NotifyConversationList, snapshot)
	return snapshot, nil
}

// SelectConversation makes the conversation the active one and replaces
// the thread with its fetched history. The switch commits only after
// the fetch succeeds, so a failed fetch leaves the prior selection and
// its thread fully intact. A history response that resolves after a
// newer selection is discarded.
func (uc *ChatSyncUseCase) SelectConversation(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	uc.mu.Lock()
	conversation := uc.findConversationLocked(conversationID)
	if conversation == nil {
		uc.mu.Unlock()
		return nil, errors.NotFound("Conversation", nil)
	}
	uc.selectSeq++
	seq := uc.selectSeq
	uc.mu.Unlock()

	messages, err := uc.convRepo.Messages(ctx, conversationID)

	uc.mu.Lock()
	if uc.selectSeq != seq {
		uc.mu.Unlock()
		return nil, errors.New("STALE_FETCH", "A newer selection superseded this fetch", http.StatusConflict, nil)
	}
	if err != nil {
		uc.mu.Unlock()
		logger.Error("Failed to load messages for conversation %s: %v", conversationID, err)
		return nil, err
	}

	// Keep local entries the fetched history does not know yet:
	// unconfirmed optimistic sends and events that raced the fetch.
	fetched := make(map[string]bool, len(messages))
	for _, message := range messages {
		fetched[message.ID] = true
	}
	for _, local := range uc.messages {
		if local.ConversationID == conversationID && !fetched[local.ID] {
			messages = append(messages, local)
		}
	}

	uc.activeID = conversationID
	conversation.UnreadCount = 0
	uc.messages = messages
	uc.sortMessagesLocked()
	snapshot := uc.messagesSnapshotLocked()
	uc.mu.Unlock()

	return snapshot, nil
}

// HandleInboundMessage applies one receive_mess event. Events for the
// active conversation extend the thread; every event refreshes the
// owning conversation's preview and recency. An event for an unknown
// conversation triggers a fetch-on-miss; fetch failures are logged and
// dropped since the next full reload self-corrects.
func (uc *ChatSyncUseCase) HandleInboundMessage(ctx context.Context, message *entity.Message) {
	uc.mu.Lock()

	if message.ClientID != "" && uc.pendingEchoes[message.ClientID] {
		uc.mergeEchoLocked(message)
		uc.mu.Unlock()
		return
	}

	if message.ConversationID == uc.activeID && uc.activeID != "" {
		if uc.findMessageLocked(message.ID) == nil {
			uc.messages = append(uc.messages, message)
			uc.sortMessagesLocked()
		}
	}

	conversation := uc.findConversationLocked(message.ConversationID)
	if conversation != nil {
		conversation.LastMessage = message.Content
		conversation.UpdatedAt = message.CreatedAt
		if message.ConversationID != uc.activeID {
			conversation.UnreadCount++
		}
		uc.sortConversationsLocked()
		updated := *conversation
		uc.mu.Unlock()

		uc.notifier.Broadcast(NotifyMessageReceived, message)
		uc.notifier.Broadcast(NotifyConversationUpdated, &updated)
		return
	}

	if uc.fetching[message.ConversationID] {
		// A discovery fetch is already in flight; its result will
		// carry the latest preview. The message itself still goes out.
		uc.mu.Unlock()
		uc.notifier.Broadcast(NotifyMessageReceived, message)
		return
	}
	uc.fetching[message.ConversationID] = true
	uc.mu.Unlock()

	uc.notifier.Broadcast(NotifyMessageReceived, message)

	fetched, err := uc.convRepo.GetByID(ctx, message.ConversationID)

	uc.mu.Lock()
	delete(uc.fetching, message.ConversationID)
	if err != nil {
		uc.mu.Unlock()
		logger.Warn("Failed to fetch unknown conversation %s: %v", message.ConversationID, err)
		return
	}

	if existing := uc.findConversationLocked(message.ConversationID); existing != nil {
		// Materialized by a concurrent reload while we were fetching.
		uc.mu.Unlock()
		return
	}

	uc.conversations = append([]*entity.Conversation{fetched}, uc.conversations...)
	uc.sortConversationsLocked()
	prepended := *fetched
	uc.mu.Unlock()

	uc.notifier.Broadcast(NotifyConversationUpdated, &prepended)
}

// SendMessage emits a send event and optimistically appends the message
// locally without waiting for server acknowledgment. The emit is fire
// and forget; a failed write is logged but never surfaced, since no
// delivery confirmation contract exists.
func (uc *ChatSyncUseCase) SendMessage(ctx context.Context, conversationID, content string) (*entity.Message, error) {
	uc.mu.Lock()
	conversation := uc.findConversationLocked(conversationID)
	if conversation == nil {
		uc.mu.Unlock()
		return nil, errors.NotFound("Conversation", nil)
	}

	clientID := uuid.New().String()
	message := &entity.Message{
		ID:             clientID,
		ConversationID: conversationID,
		SenderID:       uc.reviewerID,
		SenderType:     entity.SenderReviewer,
		Content:        content,
		CreatedAt:      time.Now(),
		ClientID:       clientID,
	}

	if conversationID == uc.activeID {
		uc.messages = append(uc.messages, message)
		uc.sortMessagesLocked()
	}
	uc.pendingEchoes[clientID] = true

	conversation.LastMessage = content
	conversation.UpdatedAt = message.CreatedAt
	uc.sortConversationsLocked()
	updated := *conversation
	uc.mu.Unlock()

	if err := uc.channel.Emit(realtime.EventMessageSend, realtime.SendMessagePayload{
		ConversationID: conversationID,
		SenderID:       uc.reviewerID,
		Content:        content,
		ClientID:       clientID,
	}); err != nil {
		logger.Warn("Send emit failed for conversation %s: %v", conversationID, err)
	}

	uc.notifier.Broadcast(NotifyMessageReceived, message)
	uc.notifier.Broadcast(NotifyConversationUpdated, &updated)

	return message, nil
}

// HandleConnectivity relays the channel's connection state to the UI.
func (uc *ChatSyncUseCase) HandleConnectivity(connected bool) {
	uc.notifier.Broadcast(NotifyConnectivity, map[string]bool{"connected": connected})
}

func (uc *ChatSyncUseCase) GetCustomerProfile(ctx context.Context, customerID string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		logger.Error("Failed to load customer profile %s: %v", customerID, err)
		return nil, err
	}
	return customer, nil
}

func (uc *ChatSyncUseCase) Conversations() []*entity.Conversation {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.conversationsSnapshotLocked()
}

func (uc *ChatSyncUseCase) Messages() []*entity.Message {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.messagesSnapshotLocked()
}

func (uc *ChatSyncUseCase) ActiveConversation() *entity.Conversation {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if conversation := uc.findConversationLocked(uc.activeID); conversation != nil {
		snapshot := *conversation
		return &snapshot
	}
	return nil
}

// ActiveCustomerName feeds the quick-reply expander's first-name
// placeholder. Empty when no conversation is selected.
func (uc *ChatSyncUseCase) ActiveCustomerName() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if conversation := uc.findConversationLocked(uc.activeID); conversation != nil {
		return conversation.Customer.Name
	}
	return ""
}

// mergeEchoLocked folds the server's authoritative copy of a locally
// sent message into the optimistic entry instead of appending a
// duplicate.
func (uc *ChatSyncUseCase) mergeEchoLocked(message *entity.Message) {
	delete(uc.pendingEchoes, message.ClientID)

	for _, local := range uc.messages {
		if local.ClientID == message.ClientID {
			local.ID = message.ID
			local.CreatedAt = message.CreatedAt
			local.SenderType = message.SenderType
			break
		}
	}
	uc.sortMessagesLocked()
}

func (uc *ChatSyncUseCase) findConversationLocked(id string) *entity.Conversation {
	for _, conversation := range uc.conversations {
		if conversation.ID == id {
			return conversation
		}
	}
	return nil
}

func (uc *ChatSyncUseCase) findMessageLocked(id string) *entity.Message {
	for _, message := range uc.messages {
		if message.ID == id {
			return message
		}
	}
	return nil
}

// Most recently updated first. The sort is stable so conversations with
// equal timestamps keep their relative order.
func (uc *ChatSyncUseCase) sortConversationsLocked() {
	sort.SliceStable(uc.conversations, func(i, j int) bool {
		return uc.conversations[i].UpdatedAt.After(uc.conversations[j].UpdatedAt)
	})
}

// The thread is ordered by creation time rather than arrival order, so
// out-of-order delivery cannot scramble it.
func (uc *ChatSyncUseCase) sortMessagesLocked() {
	sort.SliceStable(uc.messages, func(i, j int) bool {
		return uc.messages[i].CreatedAt.Before(uc.messages[j].CreatedAt)
	})
}

func (uc *ChatSyncUseCase) conversationsSnapshotLocked() []*entity.Conversation {
	snapshot := make([]*entity.Conversation, len(uc.conversations))
	copy(snapshot, uc.conversations)
	return snapshot
}

func (uc *ChatSyncUseCase) messagesSnapshotLocked() []*entity.Message {
	snapshot := make([]*entity.Message, len(uc.messages))
	copy(snapshot, uc.messages)
	return snapshot
}
