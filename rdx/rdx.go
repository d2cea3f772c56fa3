package rdx

import (
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"kirana/globals"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

func RdxSet(key, value string) error {
	return Conn.Set(globals.Ctx, key, value, 0).Err()
}

func RdxGet(key string) (string, error) {
	return Conn.Get(globals.Ctx, key).Result()
}

func RdxDel(key string) error {
	return Conn.Del(globals.Ctx, key).Err()
}

// Publish pushes a payload onto a pub/sub channel, logging failures instead
// of propagating them; the bus is best-effort.
func Publish(channel, payload string) {
	if err := Conn.Publish(globals.Ctx, channel, payload).Err(); err != nil {
		log.Printf("[rdx] publish to %s failed: %v", channel, err)
	}
}
