// Package websocket 实时连接网关
// 每条 WebSocket 连接对应一个 Client，由读、写两个协程驱动：
// 读协程解析上行事件并调用业务层，写协程把下行事件写回连接并负责心跳
package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"devmatch_server/internal/config"
	"devmatch_server/internal/model"
	"devmatch_server/internal/service/presence"
	"devmatch_server/pkg/constants"
)

// 上行事件名
const (
	EventAnnounce = "announce"
	EventMessage  = "message"
)

// 下行事件名
const (
	EventMessageAck = "messageAck"
	EventError      = "error"
)

// MessageSender 发送私聊消息
type MessageSender interface {
	SendMessage(ctx context.Context, sender, receiver, content string) (*model.Message, error)
}

// PresenceRegistry 登记与注销连接
type PresenceRegistry interface {
	Connect(user string, h presence.Handle)
	Disconnect(handleID string) bool
}

// Gateway 负责升级连接并创建 Client
type Gateway struct {
	upgrader       websocket.Upgrader
	sender         MessageSender
	registry       PresenceRegistry
	pongWait       time.Duration
	pingPeriod     time.Duration
	writeWait      time.Duration
	maxMessageSize int64
}

// NewGateway 创建网关，conf 中未配置的项使用默认值
func NewGateway(sender MessageSender, registry PresenceRegistry, conf config.WsConfig) *Gateway {
	if conf.PongWait <= 0 {
		conf.PongWait = 60
	}
	if conf.WriteWait <= 0 {
		conf.WriteWait = 10
	}
	if conf.MaxMessageSize <= 0 {
		conf.MaxMessageSize = 8192
	}
	pongWait := time.Duration(conf.PongWait) * time.Second
	return &Gateway{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  2048,
			WriteBufferSize: 2048,
			// 前后端分离部署时 Origin 不同，跨域由 cors 中间件和 JWT 控制
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sender:         sender,
		registry:       registry,
		pongWait:       pongWait,
		pingPeriod:     pongWait * 9 / 10,
		writeWait:      time.Duration(conf.WriteWait) * time.Second,
		maxMessageSize: conf.MaxMessageSize,
	}
}

// Serve 将 HTTP 连接升级为 WebSocket，userId 是已认证的用户
// 连接在收到 announce 之后才登记到在线状态表
func (g *Gateway) Serve(w http.ResponseWriter, r *http.Request, userId string) error {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		id:       uuid.NewString(),
		userId:   userId,
		conn:     conn,
		gateway:  g,
		SendBack: make(chan []byte, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	go client.readPump()
	go client.writePump()
	zap.L().Info("ws connected", zap.String("user", userId), zap.String("handle", client.id))
	return nil
}
