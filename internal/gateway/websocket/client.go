package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"devmatch_server/internal/dto/request"
	"devmatch_server/internal/dto/respond"
	"devmatch_server/internal/service/presence"
	"devmatch_server/pkg/errorx"
)

// inboundFrame 上行帧 {"event": ..., "data": {...}}
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ErrorPayload 下行 error 事件的数据
type ErrorPayload struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Client 一条 WebSocket 连接，实现 presence.Handle
type Client struct {
	id      string
	userId  string
	conn    *websocket.Conn
	gateway *Gateway

	SendBack chan []byte // 给前端

	mu        sync.Mutex // 保护 announced / closed，使登记与关闭互斥
	announced bool
	closed    bool

	closeOnce sync.Once
	done      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
}

// ID 连接唯一标识
func (c *Client) ID() string {
	return c.id
}

// Push 非阻塞地投递下行事件，缓冲区满或连接已关闭时返回 false
func (c *Client) Push(event presence.Event) bool {
	raw, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("marshal ws event error", zap.String("event", event.Event), zap.Error(err))
		return false
	}
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.SendBack <- raw:
		return true
	default:
		zap.L().Warn("ws send buffer full, dropping event", zap.String("handle", c.id), zap.String("event", event.Event))
		return false
	}
}

// readPump 读取上行帧，任何读错误（包括心跳超时）都会关闭连接
func (c *Client) readPump() {
	defer c.close()
	g := c.gateway
	c.conn.SetReadLimit(g.maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(g.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(g.pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("ws read error", zap.String("handle", c.id), zap.Error(err))
			}
			return
		}
		c.handle(raw)
	}
}

// writePump 将 SendBack 中的事件写回连接，并定时发送 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(c.gateway.pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case raw := <-c.SendBack:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.gateway.writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				zap.L().Warn("ws write error", zap.String("handle", c.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.gateway.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// handle 分发一条上行帧
func (c *Client) handle(raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.pushError(errorx.New(errorx.CodeInvalidParam, "消息格式错误"))
		return
	}

	switch frame.Event {
	case EventAnnounce:
		var req request.AnnounceRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil {
			c.pushError(errorx.New(errorx.CodeInvalidParam, "announce 数据格式错误"))
			return
		}
		if req.UserId != c.userId {
			c.pushError(errorx.New(errorx.CodeUnauthorized, "announce 的用户与登录用户不一致"))
			return
		}
		c.announce()
	case EventMessage:
		if !c.isAnnounced() {
			c.pushError(errorx.New(errorx.CodeUnauthorized, "请先发送 announce"))
			return
		}
		var req request.ChatMessageRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil {
			c.pushError(errorx.New(errorx.CodeInvalidParam, "message 数据格式错误"))
			return
		}
		message, err := c.gateway.sender.SendMessage(c.ctx, c.userId, req.Receiver, req.Content)
		if err != nil {
			c.pushError(err)
			return
		}
		c.Push(presence.Event{Event: EventMessageAck, Data: respond.NewMessageRespond(message)})
	default:
		c.pushError(errorx.Newf(errorx.CodeInvalidParam, "未知事件: %s", frame.Event))
	}
}

// announce 登记到在线状态表，重复 announce 忽略
func (c *Client) announce() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.announced {
		return
	}
	c.announced = true
	c.gateway.registry.Connect(c.userId, c)
}

func (c *Client) isAnnounced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.announced
}

func (c *Client) pushError(err error) {
	payload := ErrorPayload{Code: errorx.ErrServerBusy.Code, Msg: errorx.ErrServerBusy.Msg}
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		payload = ErrorPayload{Code: codeErr.Code, Msg: codeErr.Msg}
	} else {
		zap.L().Error("ws handle error", zap.String("handle", c.id), zap.Error(err))
	}
	c.Push(presence.Event{Event: EventError, Data: payload})
}

// close 只执行一次：停止两个协程、关闭连接、注销在线状态
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		announced := c.announced
		c.mu.Unlock()

		close(c.done)
		c.cancel()
		if err := c.conn.Close(); err != nil {
			zap.L().Debug("ws close error", zap.String("handle", c.id), zap.Error(err))
		}
		if announced {
			c.gateway.registry.Disconnect(c.id)
		}
		zap.L().Info("ws disconnected", zap.String("user", c.userId), zap.String("handle", c.id))
	})
}
