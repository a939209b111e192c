package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devmatch_server/internal/dto/request"
	"devmatch_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

type body struct {
	Code int             `json:"code"`
	Msg  json.RawMessage `json:"msg"`
}

type pageQuery struct {
	Limit int `form:"limit" binding:"max=50"`
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := InitTrans("zh"); err != nil {
		t.Fatalf("init trans: %v", err)
	}
	bindSend := func(c *gin.Context) {
		var req request.SendRelationshipRequest
		if err := c.ShouldBindUri(&req); err != nil {
			HandleParamError(c, err)
			return
		}
		HandleSuccess(c, req)
	}
	engine := gin.New()
	engine.POST("/send/:status/:toUserId", bindSend)
	engine.POST("/send/:status", bindSend)
	engine.GET("/page", func(c *gin.Context) {
		var q pageQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			HandleParamError(c, err)
			return
		}
		HandleSuccess(c, q)
	})
	engine.GET("/fail", func(c *gin.Context) {
		HandleError(c, errors.New("dial tcp: refused"))
	})
	engine.GET("/missing", func(c *gin.Context) {
		HandleError(c, errorx.Wrap(errors.New("no rows"), errorx.CodeNotFound, "用户不存在"))
	})
	return engine
}

func serve(t *testing.T, engine *gin.Engine, method, url string) body {
	t.Helper()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, url, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status %d", method, url, w.Code)
	}
	var b body
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return b
}

func fieldErrors(t *testing.T, b body) map[string]string {
	t.Helper()
	if b.Code != errorx.CodeInvalidParam {
		t.Fatalf("expected CodeInvalidParam, got %d", b.Code)
	}
	var fields map[string]string
	if err := json.Unmarshal(b.Msg, &fields); err != nil {
		t.Fatalf("msg should be a field map, got %s", b.Msg)
	}
	return fields
}

func TestParamErrorsUsePathParameterNames(t *testing.T) {
	engine := newEngine(t)

	fields := fieldErrors(t, serve(t, engine, http.MethodPost, "/send/maybe/U2"))
	if msg, ok := fields["status"]; !ok || !strings.HasPrefix(msg, "status") {
		t.Fatalf("invalid status should be reported under status, got %v", fields)
	}

	fields = fieldErrors(t, serve(t, engine, http.MethodPost, "/send/interested"))
	if msg, ok := fields["toUserId"]; !ok || !strings.HasPrefix(msg, "toUserId") {
		t.Fatalf("missing target should be reported under toUserId, got %v", fields)
	}
	if _, ok := fields["ToUserId"]; ok {
		t.Fatalf("Go field names must not leak into messages: %v", fields)
	}
}

func TestParamErrorsUseQueryNames(t *testing.T) {
	engine := newEngine(t)
	fields := fieldErrors(t, serve(t, engine, http.MethodGet, "/page?limit=500"))
	if _, ok := fields["limit"]; !ok {
		t.Fatalf("query validation should be keyed by limit, got %v", fields)
	}

	if b := serve(t, engine, http.MethodGet, "/page?limit=abc"); b.Code != errorx.CodeInvalidParam {
		t.Fatalf("malformed query should map to CodeInvalidParam, got %d", b.Code)
	}
}

func TestHandleErrorCodes(t *testing.T) {
	engine := newEngine(t)

	b := serve(t, engine, http.MethodGet, "/missing")
	var msg string
	_ = json.Unmarshal(b.Msg, &msg)
	if b.Code != errorx.CodeNotFound || msg != "用户不存在" {
		t.Fatalf("business error should pass through, got %d %q", b.Code, msg)
	}

	b = serve(t, engine, http.MethodGet, "/fail")
	_ = json.Unmarshal(b.Msg, &msg)
	if b.Code != errorx.CodeServerBusy || msg != errorx.ErrServerBusy.Msg {
		t.Fatalf("unknown error should become server busy, got %d %q", b.Code, msg)
	}
}
