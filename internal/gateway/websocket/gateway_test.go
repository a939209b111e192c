package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"devmatch_server/internal/config"
	"devmatch_server/internal/dao/mysql/repository/repotest"
	"devmatch_server/internal/dto/respond"
	"devmatch_server/internal/model"
	"devmatch_server/internal/service/conversation"
	"devmatch_server/internal/service/matching"
	"devmatch_server/internal/service/presence"
	"devmatch_server/internal/service/user"
	"devmatch_server/pkg/enum/relationship/relationship_status_enum"
	"devmatch_server/pkg/errorx"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type testEnv struct {
	registry *presence.Registry
	server   *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repotest.New()
	store.AddUser("A", "alice")
	store.AddUser("B", "bob")
	store.AddUser("C", "carol")
	repos := store.Repositories()
	edge := &model.RelationshipEdge{Uuid: "RAB", FromId: "A", ToId: "B", Status: relationship_status_enum.ACCEPTED}
	if err := repos.Relationship.Create(context.Background(), edge); err != nil {
		t.Fatal(err)
	}

	users := user.NewUserService(repos, nil)
	registry := presence.NewRegistry()
	conv := conversation.NewConversationService(repos, matching.NewMatchingService(repos, users, nil, nil), users, registry, nil)
	g := NewGateway(conv, registry, config.WsConfig{PongWait: 5, WriteWait: 2, MaxMessageSize: 4096})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g.Serve(w, r, r.URL.Query().Get("user")); err != nil {
			t.Logf("upgrade: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return &testEnv{registry: registry, server: server}
}

func (e *testEnv) dial(t *testing.T, user string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/?user=" + user
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, event string, data interface{}) {
	t.Helper()
	raw, _ := json.Marshal(data)
	if err := conn.WriteJSON(frame{Event: event, Data: raw}); err != nil {
		t.Fatalf("write %s: %v", event, err)
	}
}

// expect 读取帧直到出现指定事件，跳过在线状态类事件
func expect(t *testing.T, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("waiting for %s: %v", event, err)
		}
		if f.Event == event {
			return f.Data
		}
	}
}

func expectError(t *testing.T, conn *websocket.Conn, code int) {
	t.Helper()
	var payload ErrorPayload
	if err := json.Unmarshal(expect(t, conn, EventError), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Code != code {
		t.Fatalf("expected error code %d, got %+v", code, payload)
	}
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestAnnounceMustMatchAuthenticatedUser(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "A")

	send(t, conn, EventMessage, map[string]string{"receiver": "B", "content": "hi"})
	expectError(t, conn, errorx.CodeUnauthorized)

	send(t, conn, EventAnnounce, map[string]string{"userId": "B"})
	expectError(t, conn, errorx.CodeUnauthorized)
	if env.registry.IsOnline("B") || env.registry.IsOnline("A") {
		t.Fatalf("mismatched announce must not register anyone")
	}

	send(t, conn, "dance", map[string]string{})
	expectError(t, conn, errorx.CodeInvalidParam)

	send(t, conn, EventAnnounce, map[string]string{"userId": "A"})
	expect(t, conn, presence.EventPresenceSnapshot)
	if !env.registry.IsOnline("A") {
		t.Fatalf("A should be online after announce")
	}
}

func TestMessageRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	a := env.dial(t, "A")
	b := env.dial(t, "B")
	send(t, a, EventAnnounce, map[string]string{"userId": "A"})
	expect(t, a, presence.EventPresenceSnapshot)
	send(t, b, EventAnnounce, map[string]string{"userId": "B"})
	expect(t, b, presence.EventPresenceSnapshot)

	send(t, a, EventMessage, map[string]string{"receiver": "B", "content": "hello bob"})

	var ack respond.MessageRespond
	if err := json.Unmarshal(expect(t, a, EventMessageAck), &ack); err != nil {
		t.Fatal(err)
	}
	var got respond.MessageRespond
	if err := json.Unmarshal(expect(t, b, conversation.EventMessageReceived), &got); err != nil {
		t.Fatal(err)
	}
	if ack.Uuid == "" || ack.Uuid != got.Uuid || got.Content != "hello bob" || got.SendId != "A" {
		t.Fatalf("ack %+v does not match delivery %+v", ack, got)
	}

	// 未建立连接的用户之间不能发消息
	send(t, a, EventMessage, map[string]string{"receiver": "C", "content": "hi"})
	expectError(t, a, errorx.CodeUnauthorized)
}

func TestDisconnectUnregisters(t *testing.T) {
	env := newTestEnv(t)
	a := env.dial(t, "A")
	b := env.dial(t, "B")
	send(t, a, EventAnnounce, map[string]string{"userId": "A"})
	expect(t, a, presence.EventPresenceSnapshot)
	send(t, b, EventAnnounce, map[string]string{"userId": "B"})
	expect(t, b, presence.EventPresenceSnapshot)

	b.Close()
	waitFor(t, func() bool { return !env.registry.IsOnline("B") }, "B to go offline")

	var payload presence.UserPayload
	if err := json.Unmarshal(expect(t, a, presence.EventUserOffline), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.UserId != "B" {
		t.Fatalf("unexpected offline payload %+v", payload)
	}
}

func TestPushIsNonBlocking(t *testing.T) {
	c := &Client{id: "h", SendBack: make(chan []byte, 1), done: make(chan struct{})}
	if !c.Push(presence.Event{Event: "x"}) {
		t.Fatalf("first push should be buffered")
	}
	if c.Push(presence.Event{Event: "y"}) {
		t.Fatalf("push into a full buffer should be dropped")
	}
	<-c.SendBack
	close(c.done)
	if c.Push(presence.Event{Event: "z"}) {
		t.Fatalf("push after close should be dropped")
	}
}
