package user

import (
	"context"
	"testing"

	"devmatch_server/internal/dao/mysql/repository/repotest"
	"devmatch_server/internal/dao/redis/redistest"
	"devmatch_server/pkg/constants"
	"devmatch_server/pkg/errorx"
)

func TestGetUserInfo(t *testing.T) {
	store := repotest.New()
	store.AddUser("U1", "alice")
	cache := redistest.New()
	svc := NewUserService(store.Repositories(), cache)
	ctx := context.Background()

	if _, err := svc.GetUserInfo(ctx, ""); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("empty uuid: %v", err)
	}
	if _, err := svc.GetUserInfo(ctx, "missing"); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("missing user: %v", err)
	}

	card, err := svc.GetUserInfo(ctx, "U1")
	if err != nil || card.Nickname != "alice" {
		t.Fatalf("get: %+v %v", card, err)
	}
	if !cache.Exists(constants.UserInfoKeyPrefix + "U1") {
		t.Fatalf("user info should be written back to cache")
	}
}

func TestGetUserInfosUsesCache(t *testing.T) {
	store := repotest.New()
	store.AddUser("U1", "alice")
	store.AddUser("U2", "bob")
	cache := redistest.New()
	svc := NewUserService(store.Repositories(), cache)
	ctx := context.Background()

	if _, err := svc.GetUserInfo(ctx, "U1"); err != nil {
		t.Fatal(err)
	}
	// 缓存中的值优先于数据库
	if err := cache.Set(ctx, constants.UserInfoKeyPrefix+"U1", `{"userId":"U1","nickname":"cached"}`, 0); err != nil {
		t.Fatal(err)
	}

	cards, err := svc.GetUserInfos(ctx, []string{"U1", "U2", "U1", "ghost"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 || cards["U1"].Nickname != "cached" || cards["U2"].Nickname != "bob" {
		t.Fatalf("unexpected cards %+v", cards)
	}
}

func TestCacheFailureFallsBackToDB(t *testing.T) {
	store := repotest.New()
	store.AddUser("U1", "alice")
	cache := redistest.New()
	cache.Fail(true)
	svc := NewUserService(store.Repositories(), cache)

	card, err := svc.GetUserInfo(context.Background(), "U1")
	if err != nil || card.Nickname != "alice" {
		t.Fatalf("get with broken cache: %+v %v", card, err)
	}
}

func TestWithoutCache(t *testing.T) {
	store := repotest.New()
	store.AddUser("U1", "alice")
	svc := NewUserService(store.Repositories(), nil)
	cards, err := svc.GetUserInfos(context.Background(), []string{"U1"})
	if err != nil || cards["U1"].Nickname != "alice" {
		t.Fatalf("get without cache: %+v %v", cards, err)
	}
}
