package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/pkg/errors"
)

type fakeConversationRepo struct {
	mu          sync.Mutex
	list        []*entity.Conversation
	listErr     error
	byID        map[string]*entity.Conversation
	getErr      error
	getCalls    int
	messages      map[string][]*entity.Message
	messagesErr   error
	messagesCalls int
	gates         map[string]chan struct{}
}

func (f *fakeConversationRepo) List(ctx context.Context) ([]*entity.Conversation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	f.mu.Lock()
	f.getCalls++
	gate := f.gates[id]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	conv, ok := f.byID[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return conv, nil
}

func (f *fakeConversationRepo) Messages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	f.mu.Lock()
	f.messagesCalls++
	gate := f.gates["messages:"+conversationID]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.messagesErr != nil {
		return nil, f.messagesErr
	}
	return f.messages[conversationID], nil
}

type fakeCustomerRepo struct {
	customer *entity.Customer
	err      error
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.customer, nil
}

type emittedEvent struct {
	event   string
	payload interface{}
}

type fakeChannel struct {
	mu     sync.Mutex
	events []emittedEvent
	err    error
}

func (f *fakeChannel) Emit(event string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, emittedEvent{event: event, payload: payload})
	return nil
}

func (f *fakeChannel) emitted() []emittedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]emittedEvent, len(f.events))
	copy(out, f.events)
	return out
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) Broadcast(event string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeNotifier) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e == event {
			n++
		}
	}
	return n
}

func conv(id string, customerName string, updatedAt time.Time) *entity.Conversation {
	return &entity.Conversation{
		ID:        id,
		Customer:  entity.Customer{ID: "cust-" + id, Name: customerName},
		UpdatedAt: updatedAt,
	}
}

func msg(id, conversationID, content string, createdAt time.Time) *entity.Message {
	return &entity.Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       "fb_1",
		SenderType:     entity.SenderCustomer,
		Content:        content,
		CreatedAt:      createdAt,
	}
}

func newSyncUseCase(repo *fakeConversationRepo) (*ChatSyncUseCase, *fakeChannel) {
	channel := &fakeChannel{}
	uc := NewChatSyncUseCase(repo, &fakeCustomerRepo{}, channel, &fakeNotifier{}, "reviewer_1")
	return uc, channel
}

func TestLoadConversationsSortsByRecency(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list: []*entity.Conversation{
			conv("a", "A", now.Add(-2*time.Hour)),
			conv("b", "B", now),
			conv("c", "C", now.Add(-1*time.Hour)),
		},
	}
	uc, _ := newSyncUseCase(repo)

	conversations, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)

	require.Len(t, conversations, 3)
	assert.Equal(t, "b", conversations[0].ID)
	assert.Equal(t, "c", conversations[1].ID)
	assert.Equal(t, "a", conversations[2].ID)
}

func TestLoadConversationsKeepsPriorStateOnError(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list: []*entity.Conversation{conv("a", "A", now)},
	}
	uc, _ := newSyncUseCase(repo)

	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)

	repo.listErr = errors.Unavailable("backend down", nil)
	_, err = uc.LoadConversations(context.Background())
	require.Error(t, err)

	conversations := uc.Conversations()
	require.Len(t, conversations, 1)
	assert.Equal(t, "a", conversations[0].ID)
}

func TestInboundMessageUpdatesExistingConversation(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list: []*entity.Conversation{
			conv("a", "A", now),
			conv("b", "B", now.Add(-1*time.Hour)),
		},
	}
	uc, _ := newSyncUseCase(repo)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)

	uc.HandleInboundMessage(context.Background(), msg("m1", "b", "hello again", now.Add(time.Minute)))

	conversations := uc.Conversations()
	require.Len(t, conversations, 2, "merge must not grow the list")
	assert.Equal(t, "b", conversations[0].ID, "updated conversation moves to the top")
	assert.Equal(t, "hello again", conversations[0].LastMessage)
	assert.Equal(t, 1, conversations[0].UnreadCount)
	assert.Zero(t, repo.getCalls, "known conversation must not trigger a fetch")
}

func TestInboundMessageDiscoversUnknownConversation(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list: []*entity.Conversation{conv("a", "A", now.Add(-time.Hour))},
		byID: map[string]*entity.Conversation{
			"new": conv("new", "N", now),
		},
	}
	uc, _ := newSyncUseCase(repo)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)

	uc.HandleInboundMessage(context.Background(), msg("m1", "new", "hi", now))

	conversations := uc.Conversations()
	require.Len(t, conversations, 2)
	assert.Equal(t, "new", conversations[0].ID)
	assert.Equal(t, 1, repo.getCalls)
}

func TestInboundMessageSingleFlightDiscovery(t *testing.T) {
	now := time.Now()
	gate := make(chan struct{})
	repo := &fakeConversationRepo{
		byID: map[string]*entity.Conversation{
			"new": conv("new", "N", now),
		},
		gates: map[string]chan struct{}{"new": gate},
	}
	notifier := &fakeNotifier{}
	uc := NewChatSyncUseCase(repo, &fakeCustomerRepo{}, &fakeChannel{}, notifier, "reviewer_1")

	done := make(chan struct{})
	go func() {
		uc.HandleInboundMessage(context.Background(), msg("m1", "new", "first", now))
		close(done)
	}()

	// Wait for the first event to park on the fetch, then deliver a
	// second event for the same unknown conversation.
	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.getCalls == 1
	}, time.Second, 5*time.Millisecond)

	uc.HandleInboundMessage(context.Background(), msg("m2", "new", "second", now.Add(time.Second)))

	close(gate)
	<-done

	conversations := uc.Conversations()
	require.Len(t, conversations, 1, "exactly one entry despite two events")
	assert.Equal(t, "new", conversations[0].ID)
	assert.Equal(t, 1, repo.getCalls)
	assert.Equal(t, 2, notifier.count(NotifyMessageReceived), "both events reach the UI")
}

func TestInboundMessageFetchFailureIsSwallowed(t *testing.T) {
	repo := &fakeConversationRepo{
		getErr: errors.Unavailable("backend down", nil),
	}
	uc, _ := newSyncUseCase(repo)

	uc.HandleInboundMessage(context.Background(), msg("m1", "ghost", "hi", time.Now()))

	assert.Empty(t, uc.Conversations())
}

func TestInboundMessageAppendsToActiveThreadInTimestampOrder(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list: []*entity.Conversation{conv("a", "A", now)},
		messages: map[string][]*entity.Message{
			"a": {msg("m1", "a", "first", now.Add(-time.Minute))},
		},
	}
	uc, _ := newSyncUseCase(repo)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)
	_, err = uc.SelectConversation(context.Background(), "a")
	require.NoError(t, err)

	// Delivered out of order: the later message arrives first.
	uc.HandleInboundMessage(context.Background(), msg("m3", "a", "third", now.Add(2*time.Second)))
	uc.HandleInboundMessage(context.Background(), msg("m2", "a", "second", now.Add(time.Second)))

	messages := uc.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)
	assert.Equal(t, "m3", messages[2].ID)

	active := uc.ActiveConversation()
	require.NotNil(t, active)
	assert.Zero(t, active.UnreadCount, "active conversation does not accumulate unread")
}

func TestInboundDuplicateMessageIgnored(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list:     []*entity.Conversation{conv("a", "A", now)},
		messages: map[string][]*entity.Message{"a": nil},
	}
	uc, _ := newSyncUseCase(repo)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)
	_, err = uc.SelectConversation(context.Background(), "a")
	require.NoError(t, err)

	m := msg("m1", "a", "hello", now)
	uc.HandleInboundMessage(context.Background(), m)
	uc.HandleInboundMessage(context.Background(), m)

	assert.Len(t, uc.Messages(), 1)
}

func TestSendMessageOptimistic(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list: []*entity.Conversation{
			conv("a", "Alice", now.Add(-time.Hour)),
			conv("b", "Bob", now),
		},
		messages: map[string][]*entity.Message{"a": nil},
	}
	uc, channel := newSyncUseCase(repo)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)
	_, err = uc.SelectConversation(context.Background(), "a")
	require.NoError(t, err)

	message, err := uc.SendMessage(context.Background(), "a", "on my way")
	require.NoError(t, err)

	messages := uc.Messages()
	require.Len(t, messages, 1, "exactly one message appended before any confirmation")
	assert.Equal(t, entity.SenderReviewer, messages[0].SenderType)
	assert.Equal(t, "reviewer_1", messages[0].SenderID)
	assert.NotEmpty(t, message.ClientID)

	conversations := uc.Conversations()
	assert.Equal(t, "a", conversations[0].ID, "sent conversation moves to the top")
	assert.Equal(t, "on my way", conversations[0].LastMessage)

	events := channel.emitted()
	require.Len(t, events, 1)
	assert.Equal(t, "send_mess", events[0].event)
}

func TestSendMessageToUnknownConversation(t *testing.T) {
	uc, channel := newSyncUseCase(&fakeConversationRepo{})

	_, err := uc.SendMessage(context.Background(), "ghost", "hello?")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	assert.Empty(t, channel.emitted(), "no emit without a known conversation")
}

func TestSendEmitFailureIsNotSurfaced(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list:     []*entity.Conversation{conv("a", "A", now)},
		messages: map[string][]*entity.Message{"a": nil},
	}
	channel := &fakeChannel{err: errors.Unavailable("channel down", nil)}
	uc := NewChatSyncUseCase(repo, &fakeCustomerRepo{}, channel, &fakeNotifier{}, "reviewer_1")
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)
	_, err = uc.SelectConversation(context.Background(), "a")
	require.NoError(t, err)

	_, err = uc.SendMessage(context.Background(), "a", "hello")
	require.NoError(t, err, "fire-and-forget send never observes channel failures")
	assert.Len(t, uc.Messages(), 1)
}

func TestServerEchoMergesIntoOptimisticMessage(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list:     []*entity.Conversation{conv("a", "A", now)},
		messages: map[string][]*entity.Message{"a": nil},
	}
	uc, _ := newSyncUseCase(repo)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)
	_, err = uc.SelectConversation(context.Background(), "a")
	require.NoError(t, err)

	sent, err := uc.SendMessage(context.Background(), "a", "hello")
	require.NoError(t, err)

	echo := &entity.Message{
		ID:             "server-1",
		ConversationID: "a",
		SenderID:       "reviewer_1",
		SenderType:     entity.SenderReviewer,
		Content:        "hello",
		CreatedAt:      now.Add(time.Second),
		ClientID:       sent.ClientID,
	}
	uc.HandleInboundMessage(context.Background(), echo)

	messages := uc.Messages()
	require.Len(t, messages, 1, "echo must not duplicate the optimistic entry")
	assert.Equal(t, "server-1", messages[0].ID, "local entry adopts the server id")
}

func TestSelectConversationClearsUnread(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list:     []*entity.Conversation{conv("a", "A", now)},
		messages: map[string][]*entity.Message{"a": nil},
	}
	uc, _ := newSyncUseCase(repo)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)

	uc.HandleInboundMessage(context.Background(), msg("m1", "a", "ping", now))
	conversations := uc.Conversations()
	require.Equal(t, 1, conversations[0].UnreadCount)

	_, err = uc.SelectConversation(context.Background(), "a")
	require.NoError(t, err)
	assert.Zero(t, uc.Conversations()[0].UnreadCount)
}

func TestSelectConversationDiscardsStaleFetch(t *testing.T) {
	now := time.Now()
	gate := make(chan struct{})
	repo := &fakeConversationRepo{
		list: []*entity.Conversation{
			conv("slow", "S", now),
			conv("fast", "F", now.Add(-time.Hour)),
		},
		messages: map[string][]*entity.Message{
			"slow": {msg("ms", "slow", "slow history", now)},
			"fast": {msg("mf", "fast", "fast history", now)},
		},
		gates: map[string]chan struct{}{"messages:slow": gate},
	}
	uc, _ := newSyncUseCase(repo)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)

	staleErr := make(chan error, 1)
	go func() {
		_, err := uc.SelectConversation(context.Background(), "slow")
		staleErr <- err
	}()

	// Switch away while the first history fetch is still pending.
	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.messagesCalls == 1
	}, time.Second, 5*time.Millisecond)

	_, err = uc.SelectConversation(context.Background(), "fast")
	require.NoError(t, err)

	close(gate)
	err = <-staleErr
	require.Error(t, err)
	assert.True(t, errors.Is(err, "STALE_FETCH"))

	messages := uc.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "mf", messages[0].ID, "stale history must not overwrite the new thread")
}

func TestFailedSelectKeepsPriorThread(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list: []*entity.Conversation{
			conv("a", "A", now),
			conv("b", "B", now.Add(-time.Hour)),
		},
		messages: map[string][]*entity.Message{
			"a": {msg("ma", "a", "thread a", now)},
			"b": {msg("mb", "b", "thread b", now)},
		},
	}
	uc, _ := newSyncUseCase(repo)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)
	_, err = uc.SelectConversation(context.Background(), "a")
	require.NoError(t, err)

	repo.messagesErr = errors.Unavailable("backend down", nil)
	_, err = uc.SelectConversation(context.Background(), "b")
	require.Error(t, err)

	active := uc.ActiveConversation()
	require.NotNil(t, active)
	assert.Equal(t, "a", active.ID, "failed switch leaves the prior selection")

	// An event for the conversation whose selection failed must not
	// leak into the displayed thread.
	uc.HandleInboundMessage(context.Background(), msg("mb2", "b", "for b", now.Add(time.Second)))

	messages := uc.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "ma", messages[0].ID)
	assert.Equal(t, "a", messages[0].ConversationID)
}

func TestReselectKeepsUnconfirmedMessages(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list: []*entity.Conversation{conv("a", "A", now)},
		messages: map[string][]*entity.Message{
			"a": {msg("m1", "a", "history", now.Add(-time.Minute))},
		},
	}
	uc, _ := newSyncUseCase(repo)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)
	_, err = uc.SelectConversation(context.Background(), "a")
	require.NoError(t, err)

	sent, err := uc.SendMessage(context.Background(), "a", "not yet echoed")
	require.NoError(t, err)

	// The backend history does not contain the unconfirmed send.
	messages, err := uc.SelectConversation(context.Background(), "a")
	require.NoError(t, err)

	require.Len(t, messages, 2)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, sent.ID, messages[1].ID)
}

func TestReloadExpiresEchoCorrelation(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list:     []*entity.Conversation{conv("a", "A", now)},
		messages: map[string][]*entity.Message{"a": nil},
	}
	uc, _ := newSyncUseCase(repo)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)
	_, err = uc.SelectConversation(context.Background(), "a")
	require.NoError(t, err)

	sent, err := uc.SendMessage(context.Background(), "a", "hello")
	require.NoError(t, err)

	_, err = uc.LoadConversations(context.Background())
	require.NoError(t, err)

	// Correlation state does not survive a reload; the late echo is
	// handled as a regular inbound message.
	uc.HandleInboundMessage(context.Background(), &entity.Message{
		ID:             "server-1",
		ConversationID: "a",
		SenderID:       "reviewer_1",
		SenderType:     entity.SenderReviewer,
		Content:        "hello",
		CreatedAt:      now.Add(time.Second),
		ClientID:       sent.ClientID,
	})

	messages := uc.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, sent.ID, messages[0].ID)
	assert.Equal(t, "server-1", messages[1].ID)
}

func TestSelectUnknownConversation(t *testing.T) {
	uc, _ := newSyncUseCase(&fakeConversationRepo{})

	_, err := uc.SelectConversation(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestActiveCustomerName(t *testing.T) {
	now := time.Now()
	repo := &fakeConversationRepo{
		list:     []*entity.Conversation{conv("a", "Nguyen Van A", now)},
		messages: map[string][]*entity.Message{"a": nil},
	}
	uc, _ := newSyncUseCase(repo)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)

	assert.Empty(t, uc.ActiveCustomerName())

	_, err = uc.SelectConversation(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Nguyen Van A", uc.ActiveCustomerName())
}
