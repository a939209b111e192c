package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[mainConfig]
port = 8080

[kafkaConfig]
messageMode = "kafka"
hostPort = "kafka:9092"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	conf, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if conf.MainConfig.Port != 8080 {
		t.Fatalf("port not decoded: %d", conf.MainConfig.Port)
	}
	if conf.MainConfig.Host != "0.0.0.0" {
		t.Fatalf("default host lost: %q", conf.MainConfig.Host)
	}
	if conf.KafkaConfig.MessageMode != "kafka" || conf.KafkaConfig.EventTopic != "devmatch_events" {
		t.Fatalf("unexpected kafka config %+v", conf.KafkaConfig)
	}
	if conf.WsConfig.PongWait != 60 {
		t.Fatalf("default pong wait lost: %d", conf.WsConfig.PongWait)
	}
	if GetConfig() != conf {
		t.Fatalf("LoadFile should replace the global instance")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
