package redisclient

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

type redisCfg struct {
	url      string
	insecure bool
}

func (c redisCfg) GetRedisURL() string       { return c.url }
func (c redisCfg) GetRedisTLSInsecure() bool { return c.insecure }

func TestNewConnectsToRedis(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := New(context.Background(), redisCfg{url: "redis://" + s.Addr()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got, _ := s.Get("k"); got != "v" {
		t.Fatalf("expected value in miniredis, got %q", got)
	}
}

func TestOptionsRequiresURL(t *testing.T) {
	if _, err := Options(redisCfg{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestOptionsAppliesInsecureTLS(t *testing.T) {
	opts, err := Options(redisCfg{url: "rediss://localhost:6380", insecure: true})
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if opts.TLSConfig == nil || !opts.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected insecure TLS config")
	}
}
