package mysql

import (
	"testing"

	"devmatch_server/internal/config"
)

func TestDSN(t *testing.T) {
	got := DSN(&config.MysqlConfig{Host: "db", Port: 3306, User: "root", Password: "pw", DatabaseName: "devmatch"})
	want := "root:pw@tcp(db:3306)/devmatch?charset=utf8mb4&parseTime=True&loc=Local"
	if got != want {
		t.Fatalf("unexpected dsn %q", got)
	}
}
