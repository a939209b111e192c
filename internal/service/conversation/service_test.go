package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"devmatch_server/internal/dao/mysql/repository/repotest"
	"devmatch_server/internal/dto/respond"
	"devmatch_server/internal/model"
	"devmatch_server/internal/service/matching"
	"devmatch_server/internal/service/presence"
	"devmatch_server/internal/service/user"
	"devmatch_server/pkg/enum/message/message_status_enum"
	"devmatch_server/pkg/enum/relationship/relationship_status_enum"
	"devmatch_server/pkg/errorx"
)

type recordingHandle struct {
	id     string
	refuse bool

	mu     sync.Mutex
	events []presence.Event
}

func (h *recordingHandle) ID() string { return h.id }

func (h *recordingHandle) Push(e presence.Event) bool {
	if h.refuse {
		return false
	}
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
	return true
}

func (h *recordingHandle) received() []respond.MessageRespond {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []respond.MessageRespond
	for _, e := range h.events {
		if e.Event == EventMessageReceived {
			out = append(out, e.Data.(respond.MessageRespond))
		}
	}
	return out
}

type fixture struct {
	store    *repotest.Store
	registry *presence.Registry
	svc      *conversationService
}

func newFixture(t *testing.T, users ...string) *fixture {
	t.Helper()
	store := repotest.New()
	for _, u := range users {
		store.AddUser(u, "nick-"+u)
	}
	repos := store.Repositories()
	lookup := user.NewUserService(repos, nil)
	registry := presence.NewRegistry()
	match := matching.NewMatchingService(repos, lookup, nil, nil)
	svc := NewConversationService(repos, match, lookup, registry, nil)
	return &fixture{store: store, registry: registry, svc: svc}
}

func (f *fixture) connect(t *testing.T, a, b string) {
	t.Helper()
	edge := &model.RelationshipEdge{Uuid: "R" + a + b, FromId: a, ToId: b, Status: relationship_status_enum.ACCEPTED}
	if err := f.store.Repositories().Relationship.Create(context.Background(), edge); err != nil {
		t.Fatalf("create edge: %v", err)
	}
}

func expectCode(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code %d, got nil", code)
	}
	if got := errorx.GetCode(err); got != code {
		t.Fatalf("expected error code %d, got %d (%v)", code, got, err)
	}
}

func TestSendMessageValidation(t *testing.T) {
	f := newFixture(t, "A", "B", "C", "D")
	f.connect(t, "A", "B")
	if err := f.store.Repositories().Relationship.Create(context.Background(), &model.RelationshipEdge{
		Uuid: "RAC", FromId: "A", ToId: "C", Status: relationship_status_enum.INTERESTED,
	}); err != nil {
		t.Fatal(err)
	}
	f.store.DisableUser("D")
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, "A", "B", "   ")
	expectCode(t, err, errorx.CodeInvalidParam)
	_, err = f.svc.SendMessage(ctx, "A", "B", strings.Repeat("字", 2001))
	expectCode(t, err, errorx.CodeInvalidParam)
	_, err = f.svc.SendMessage(ctx, "A", "A", "hi")
	expectCode(t, err, errorx.CodeInvalidParam)
	_, err = f.svc.SendMessage(ctx, "A", "", "hi")
	expectCode(t, err, errorx.CodeInvalidParam)
	_, err = f.svc.SendMessage(ctx, "A", "nobody", "hi")
	expectCode(t, err, errorx.CodeNotFound)
	_, err = f.svc.SendMessage(ctx, "A", "D", "hi")
	expectCode(t, err, errorx.CodeNotFound)
	_, err = f.svc.SendMessage(ctx, "A", "C", "hi")
	expectCode(t, err, errorx.CodeUnauthorized)

	if n := len(f.store.Messages()); n != 0 {
		t.Fatalf("rejected sends must not persist, got %d messages", n)
	}

	if _, err := f.svc.SendMessage(ctx, "A", "B", strings.Repeat("字", 2000)); err != nil {
		t.Fatalf("2000 runes should be accepted: %v", err)
	}
}

func TestSendMessageDeliversToEveryLiveHandle(t *testing.T) {
	f := newFixture(t, "A", "B")
	f.connect(t, "A", "B")
	h1 := &recordingHandle{id: "b1"}
	h2 := &recordingHandle{id: "b2"}
	f.registry.Connect("B", h1)
	f.registry.Connect("B", h2)

	msg, err := f.svc.SendMessage(context.Background(), "A", "B", "  hello  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Content != "hello" || msg.Status != message_status_enum.Sent {
		t.Fatalf("unexpected message %+v", msg)
	}
	for _, h := range []*recordingHandle{h1, h2} {
		got := h.received()
		if len(got) != 1 || got[0].Content != "hello" || got[0].SendId != "A" {
			t.Fatalf("handle %s received %+v", h.id, got)
		}
	}
	if stored := f.store.Messages(); stored[0].Status != message_status_enum.Sent {
		t.Fatalf("stored status = %d", stored[0].Status)
	}
}

func TestSendMessageOfflineThenFetch(t *testing.T) {
	f := newFixture(t, "A", "B")
	f.connect(t, "A", "B")

	msg, err := f.svc.SendMessage(context.Background(), "A", "B", "are you there")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Status != message_status_enum.Unsent {
		t.Fatalf("offline receiver should leave message unsent")
	}

	list, err := f.svc.FetchConversation(context.Background(), "B", "A")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(list) != 1 || list[0].Content != "are you there" {
		t.Fatalf("unexpected history %+v", list)
	}
}

func TestRefusedPushLeavesMessageUnsent(t *testing.T) {
	f := newFixture(t, "A", "B")
	f.connect(t, "A", "B")
	f.registry.Connect("B", &recordingHandle{id: "b1", refuse: true})

	msg, err := f.svc.SendMessage(context.Background(), "A", "B", "hi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Status != message_status_enum.Unsent {
		t.Fatalf("refused push must not mark the message sent")
	}
}

func TestMessagesArriveInSendOrder(t *testing.T) {
	f := newFixture(t, "A", "B")
	f.connect(t, "A", "B")
	h := &recordingHandle{id: "b1"}
	f.registry.Connect("B", h)

	const n = 50
	for i := 0; i < n; i++ {
		if _, err := f.svc.SendMessage(context.Background(), "A", "B", fmt.Sprintf("m%d", i)); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	got := h.received()
	if len(got) != n {
		t.Fatalf("expected %d deliveries, got %d", n, len(got))
	}
	history, _ := f.svc.FetchConversation(context.Background(), "A", "B")
	for i := 0; i < n; i++ {
		want := fmt.Sprintf("m%d", i)
		if got[i].Content != want || history[i].Content != want {
			t.Fatalf("position %d: pushed %q, stored %q, want %q", i, got[i].Content, history[i].Content, want)
		}
		if i > 0 && !history[i].SendAt.After(history[i-1].SendAt) {
			t.Fatalf("timestamps not strictly increasing at %d", i)
		}
	}
}

func TestStorageFailureDeliversNothing(t *testing.T) {
	f := newFixture(t, "A", "B")
	f.connect(t, "A", "B")
	h := &recordingHandle{id: "b1"}
	f.registry.Connect("B", h)
	f.store.FailMessageWrites(true)

	_, err := f.svc.SendMessage(context.Background(), "A", "B", "lost")
	expectCode(t, err, errorx.CodeDBError)
	if len(h.received()) != 0 {
		t.Fatalf("nothing should be pushed when persistence fails")
	}
}

func TestFetchConversationsGroupsByPeer(t *testing.T) {
	f := newFixture(t, "A", "B", "C")
	f.connect(t, "A", "B")
	f.connect(t, "C", "A")
	ctx := context.Background()

	send := func(from, to, content string) {
		t.Helper()
		if _, err := f.svc.SendMessage(ctx, from, to, content); err != nil {
			t.Fatalf("send %s: %v", content, err)
		}
	}
	send("A", "B", "ab1")
	send("C", "A", "ca1")
	send("B", "A", "ab2")

	convs, err := f.svc.FetchConversations(ctx, "A")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].Peer.UserId != "B" || convs[0].Peer.Nickname != "nick-B" {
		t.Fatalf("latest conversation should be with B, got %+v", convs[0].Peer)
	}
	if len(convs[0].Messages) != 2 || convs[0].LastMessage.Content != "ab2" {
		t.Fatalf("unexpected B conversation %+v", convs[0])
	}
	if convs[1].Peer.UserId != "C" || convs[1].LastMessage.Content != "ca1" {
		t.Fatalf("unexpected C conversation %+v", convs[1])
	}

	empty, err := f.svc.FetchConversations(ctx, "nobody")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %v %v", empty, err)
	}
}

func TestClockIsStrictlyIncreasing(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.UTC)
	c := &clock{now: func() time.Time { return fixed }}

	first, id1 := c.next()
	second, id2 := c.next()
	if !first.Equal(fixed.Truncate(time.Microsecond)) {
		t.Fatalf("first timestamp should be truncated to microseconds, got %v", first)
	}
	if !second.After(first) || id2 <= id1 {
		t.Fatalf("clock did not advance: %v/%d then %v/%d", first, id1, second, id2)
	}

	c.now = func() time.Time { return fixed.Add(-time.Hour) }
	third, _ := c.next()
	if !third.After(second) {
		t.Fatalf("clock went backwards")
	}
}

func TestFailedAckKeepsMessageUnsent(t *testing.T) {
	f := newFixture(t, "A", "B")
	f.connect(t, "A", "B")
	h := &recordingHandle{id: "b1"}
	f.registry.Connect("B", h)
	f.store.FailStatusUpdates(true)

	msg, err := f.svc.SendMessage(context.Background(), "A", "B", "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(h.received()) != 1 {
		t.Fatalf("message should still be pushed")
	}
	stored := f.store.Messages()
	if len(stored) != 1 || stored[0].Status != message_status_enum.Unsent {
		t.Fatalf("stored row should stay unsent, got %+v", stored)
	}
	if msg.Status != stored[0].Status {
		t.Fatalf("ack status %d disagrees with stored status %d", msg.Status, stored[0].Status)
	}
}

func TestFetchConversationUnknownPeer(t *testing.T) {
	f := newFixture(t, "A", "B")
	f.store.DisableUser("B")

	_, err := f.svc.FetchConversation(context.Background(), "A", "nobody")
	expectCode(t, err, errorx.CodeNotFound)

	list, err := f.svc.FetchConversation(context.Background(), "A", "B")
	if err != nil || len(list) != 0 {
		t.Fatalf("disabled peer should still return its (empty) history, got %v %v", list, err)
	}
}
